package main

// cmd/sassc is restructured from the teacher's flag-based cmd/lessc-go
// into a Cobra command tree: "compile" runs fixture stylesheets through
// the evaluator, "eval-expr" is the bare expression entry point (spec
// section 6's evaluate_expression). Global flags (--config, --quiet)
// play the role of the teacher's CompileOptions construction in
// less_go/main.go, just built from Cobra's persistent flags instead of
// the standard flag package.
import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sasscore/sasscore/logger"
)

type globalFlags struct {
	configPath string
	quiet      bool
}

var flags globalFlags

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sassc",
		Short:         "Evaluate Sass fixture stylesheets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML file of global $variable values")
	root.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress @warn/@debug output")
	root.AddCommand(newCompileCmd())
	root.AddCommand(newEvalExprCmd())
	return root
}

func newLogger() logger.Logger {
	if flags.quiet {
		return logger.DiscardLogger{}
	}
	return logger.NewStderrLogger()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
