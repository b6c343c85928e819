package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"zokernel/internal/recursion"
	"zokernel/internal/sexpr"
)

var typecheckExpr string

var typecheckCmd = &cobra.Command{
	Use:   "typecheck [file]",
	Short: "Check a term without evaluating it",
	Long: `Like "eval", but stops after checking well-typedness, the erasability
restriction and structural recursion: the term is never reduced to normal
form. Useful for checking a definition whose evaluation would be
expensive or non-terminating if the checks above were somehow skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTypecheck,
}

func init() {
	rootCmd.AddCommand(typecheckCmd)
	typecheckCmd.Flags().StringVarP(&typecheckExpr, "eval", "e", "", "check an inline term instead of reading from a file")
}

func runTypecheck(cmd *cobra.Command, args []string) error {
	src, name, err := readSource(typecheckExpr, args)
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

	ty, err := k.types.GetType(expr, nil, nil)
	if err != nil {
		reportError(name, err)
		return err
	}
	if err := k.erase.CheckWellTyped(expr, nil); err != nil {
		reportError(name, err)
		return err
	}
	if err := recursion.Check(expr); err != nil {
		reportError(name, err)
		return err
	}

	fmt.Printf("%s %s\n", green(bold("ok")), sexpr.Print(ty.Expr()))
	return nil
}
