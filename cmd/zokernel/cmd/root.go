package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information; overridden by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "zokernel",
	Short: "A small dependently-typed kernel in the CIC tradition",
	Long: `zokernel type-checks and evaluates closed terms over a core calculus of
inductive types (Ind), constructors (Vcon), dependent elimination (Match),
possibly-recursive functions (Fun), application (App), dependent function
types (For), de Bruijn variables (Deb) and a Prop/Set universe hierarchy.

Terms are read from the list-form surface syntax described alongside this
kernel: keyword-headed forms for each of the eight variants, plain decimal
numbers for de Bruijn indices, and "Set<n>"/"Prop<n>" universe literals.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a zokernel YAML config file (defaults applied if omitted)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
