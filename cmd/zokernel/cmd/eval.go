package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"zokernel/internal/sexpr"
)

var evalExpr string

var evalCmd = &cobra.Command{
	Use:   "eval [file]",
	Short: "Type-check and evaluate an s-expr term to normal form",
	Long: `Read a closed term written in the list-form surface syntax, check it
(well-typedness, the erasability restriction, structural recursion), then
evaluate it to normal form and print both the term's type and its value.

Examples:
  zokernel eval nat.zo
  zokernel eval -e "(for () Set0)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate an inline term instead of reading from a file")
}

func runEval(cmd *cobra.Command, args []string) error {
	src, name, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	expr, err := parseTerm(src, name)
	if err != nil {
		reportError(name, err)
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	k := newKernel(cfg)

	ty, nf, err := k.checkAndEval(expr)
	if err != nil {
		reportError(name, err)
		return err
	}

	fmt.Printf("%s %s\n", cyan("type:"), sexpr.Print(ty.Expr()))
	fmt.Printf("%s %s\n", green("value:"), sexpr.Print(nf.Expr()))
	return nil
}
