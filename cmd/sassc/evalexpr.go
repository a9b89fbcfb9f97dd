package main

// "eval-expr" is the bare expression entry point (spec section 6's
// evaluate_expression): no stylesheet, no output tree, just an
// expression fixture evaluated against an optional global config and
// printed as its CSS text. Mirrors the teacher's own stdin/inline-code
// detection in less_go/main.go, narrowed to a single JSON expression
// fixture read from a file or stdin.
import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sasscore/sasscore/eval"
)

func newEvalExprCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval-expr [fixture.json]",
		Short: "Evaluate a single expression fixture and print its CSS text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			expr, err := decodeExpression(json.RawMessage(data))
			if err != nil {
				return err
			}
			globals, err := loadGlobals()
			if err != nil {
				return err
			}
			ev := eval.New(eval.Options{GlobalVariables: globals, Logger: newLogger()})
			v, err := ev.EvaluateExpression(expr)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.CSSText())
			return nil
		},
	}
	return cmd
}
