package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"zokernel/internal/ast"
	"zokernel/internal/config"
	"zokernel/internal/erasability"
	"zokernel/internal/eval"
	"zokernel/internal/kernelerrors"
	"zokernel/internal/recursion"
	"zokernel/internal/sexpr"
	"zokernel/internal/types"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// kernel bundles the three checker passes and the evaluator they share.
// One is built per command invocation; the REPL builds one and reuses it,
// caches included, for every prelude file and every line.
type kernel struct {
	cfg   *config.Config
	eval  *eval.Evaluator
	types *types.TypeChecker
	erase *erasability.Checker
}

func newKernel(cfg *config.Config) *kernel {
	ev := eval.New()
	ev.SetMaxDepth(cfg.Eval.MaxDepth)
	tc := types.New(ev)
	return &kernel{cfg: cfg, eval: ev, types: tc, erase: erasability.New(tc)}
}

// checkAndEval runs every phase on expr in the order the kernel's
// soundness depends on: well-typedness (which itself runs strict
// positivity on every Ind encountered), then the erasability
// restriction, then structural recursion, then evaluation to normal
// form. An ill-typed or otherwise rejected term never reaches Eval.
func (k *kernel) checkAndEval(expr ast.Expr[ast.Minimal]) (ty eval.NormalForm, nf eval.NormalForm, err error) {
	ty, err = k.types.GetType(expr, nil, nil)
	if err != nil {
		return eval.NormalForm{}, eval.NormalForm{}, err
	}
	if err := k.erase.CheckWellTyped(expr, nil); err != nil {
		return eval.NormalForm{}, eval.NormalForm{}, err
	}
	if err := recursion.Check(expr); err != nil {
		return eval.NormalForm{}, eval.NormalForm{}, err
	}
	nf = k.eval.Eval(expr)
	return ty, nf, nil
}

// loadConfig reads the config file named by the persistent --config flag,
// or returns the defaults when no path was given.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// readSource returns the term source from either an inline -e expression
// or a file argument, matching the file-or-inline-expr convention shared
// by every subcommand below.
func readSource(exprFlag string, args []string) (src []byte, name string, err error) {
	if exprFlag != "" {
		return []byte(exprFlag), "<expr>", nil
	}
	if len(args) != 1 {
		return nil, "", fmt.Errorf("provide a source file or use -e for an inline term")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return data, args[0], nil
}

// reportError prints err to stderr, rendering it as a kernelerrors.Report
// when the error chain carries one (every checker-phase error does), and
// falling back to its plain message otherwise (parse errors, I/O errors).
func reportError(name string, err error) {
	if rep, ok := kernelerrors.AsReport(err); ok {
		fmt.Fprintf(os.Stderr, "%s %s: [%s] %s\n", red(bold("error")), name, rep.Code, rep.Message)
		if len(rep.NodePath) > 0 {
			fmt.Fprintf(os.Stderr, "  %s %v\n", yellow("at"), rep.NodePath)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s: %s\n", red(bold("error")), name, err)
}

func parseTerm(src []byte, name string) (ast.Expr[ast.Minimal], error) {
	expr, err := sexpr.Parse(src)
	if err != nil {
		return ast.Expr[ast.Minimal]{}, fmt.Errorf("%s: %w", name, err)
	}
	return expr, nil
}
