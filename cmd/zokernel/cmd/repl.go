package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"zokernel/internal/sexpr"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-check-eval-print loop",
	Long: `Start a line-editing REPL: each line is parsed as one closed term,
checked (well-typedness, erasability, structural recursion) and evaluated
to normal form. Lines starting with ":" are REPL commands (:help, :quit).

A config file's repl.prelude files are checked and evaluated silently
before the first prompt. Their results are not kept: every later line is
still checked as a closed term.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	k := newKernel(cfg)

	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	if cfg.REPL.HistoryFile != "" {
		if f, err := os.Open(cfg.REPL.HistoryFile); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if cfg.REPL.HistoryFile == "" {
			return
		}
		if f, err := os.Create(cfg.REPL.HistoryFile); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	line.SetCompleter(func(s string) (c []string) {
		if !strings.HasPrefix(s, ":") {
			return nil
		}
		for _, name := range []string{":help", ":quit"} {
			if strings.HasPrefix(name, s) {
				c = append(c, name)
			}
		}
		return c
	})

	fmt.Println(bold("zokernel"), bold(Version))
	fmt.Println("Type :help for help, :quit to exit.")

	for _, path := range cfg.REPL.Prelude {
		if err := runPrelude(k, path); err != nil {
			reportError(path, err)
		}
	}

	for {
		input, err := line.Prompt("zo> ")
		if err == io.EOF {
			fmt.Println(green("goodbye"))
			return nil
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch input {
		case ":quit", ":q":
			fmt.Println(green("goodbye"))
			return nil
		case ":help", ":h":
			printReplHelp()
			continue
		}

		expr, err := parseTerm([]byte(input), "<repl>")
		if err != nil {
			reportError("<repl>", err)
			continue
		}

		ty, nf, err := k.checkAndEval(expr)
		if err != nil {
			reportError("<repl>", err)
			continue
		}

		fmt.Printf("%s %s\n", cyan("type:"), sexpr.Print(ty.Expr()))
		fmt.Printf("%s %s\n", green("value:"), sexpr.Print(nf.Expr()))
	}
}

func runPrelude(k *kernel, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read prelude %s: %w", path, err)
	}
	expr, err := parseTerm(data, path)
	if err != nil {
		return err
	}
	_, _, err = k.checkAndEval(expr)
	return err
}

func printReplHelp() {
	fmt.Println(yellow("Commands:"))
	fmt.Println("  :help, :h     show this message")
	fmt.Println("  :quit, :q     exit the REPL")
	fmt.Println(yellow("Otherwise:"))
	fmt.Println("  enter one closed term in the list-form surface syntax;")
	fmt.Println("  it is checked and evaluated, printing its type and value.")
}
