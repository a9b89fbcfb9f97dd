package main

// "compile" runs one or more JSON fixture stylesheets through the
// evaluator and prints the resulting CSS tree as JSON (the serializer
// that would render real CSS text is out of scope, per spec section 1).
// --select filters a multi-fixture batch with an expr-lang expression
// evaluated against each fixture's path, the way a test runner's -run
// flag narrows a suite without needing its own query language.
import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/expr-lang/expr"
	"github.com/spf13/cobra"

	"github.com/sasscore/sasscore/eval"
	"github.com/sasscore/sasscore/value"
)

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

type selectEnv struct {
	Path string
	Base string
	Ext  string
}

func newCompileCmd() *cobra.Command {
	var selectExpr string
	cmd := &cobra.Command{
		Use:   "compile <fixture.json>...",
		Short: "Evaluate fixture stylesheets and print the output CSS tree as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := selectFixtures(args, selectExpr)
			if err != nil {
				return err
			}
			globals, err := loadGlobals()
			if err != nil {
				return err
			}
			results := make([]cssNodeJSON, 0, len(paths))
			for _, path := range paths {
				node, err := compileFixture(path, globals)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				results = append(results, node)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		},
	}
	cmd.Flags().StringVar(&selectExpr, "select", "", "expr-lang expression filtering fixtures by Path/Base/Ext")
	return cmd
}

func selectFixtures(paths []string, selectExpr string) ([]string, error) {
	if selectExpr == "" {
		return paths, nil
	}
	program, err := expr.Compile(selectExpr, expr.Env(selectEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile --select expression: %w", err)
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		env := selectEnv{Path: p, Base: filepath.Base(p), Ext: filepath.Ext(p)}
		result, err := expr.Run(program, env)
		if err != nil {
			return nil, fmt.Errorf("run --select expression: %w", err)
		}
		if keep, _ := result.(bool); keep {
			out = append(out, p)
		}
	}
	return out, nil
}

func loadGlobals() (map[string]value.Value, error) {
	if flags.configPath == "" {
		return nil, nil
	}
	return loadGlobalConfig(flags.configPath)
}

func compileFixture(path string, globals map[string]value.Value) (cssNodeJSON, error) {
	data, err := readFile(path)
	if err != nil {
		return cssNodeJSON{}, err
	}
	sheet, err := decodeFixture(data)
	if err != nil {
		return cssNodeJSON{}, err
	}
	importer := newFixtureImporter(filepath.Dir(path))
	ev := eval.New(eval.Options{
		Importer:        importer,
		GlobalVariables: globals,
		Logger:          newLogger(),
	})
	result, err := ev.Run(importer, sheet)
	if err != nil {
		return cssNodeJSON{}, err
	}
	return cssToJSON(result.Stylesheet), nil
}
