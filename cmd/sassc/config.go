package main

// Global variable configuration: --config loads a YAML document of
// top-level $variable: literal pairs, the way the teacher's lessc-go
// turns repeated -modify-var flags into CompileOptions.ModifyVars, just
// sourced from a file instead of repeated flags since Sass globals are
// richer than LESS's string-only --modify-var.
import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sasscore/sasscore/value"
)

func loadGlobalConfig(path string) (map[string]value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	out := make(map[string]value.Value, len(raw))
	for name, v := range raw {
		out[name] = yamlToValue(v)
	}
	return out, nil
}

func yamlToValue(v any) value.Value {
	switch t := v.(type) {
	case nil:
		return value.TheNull
	case bool:
		return value.Bool(t)
	case int:
		return value.NewNumber(float64(t), "")
	case int64:
		return value.NewNumber(float64(t), "")
	case float64:
		return value.NewNumber(t, "")
	case string:
		return value.Unquoted(t)
	case []any:
		items := make([]value.Value, 0, len(t))
		for _, e := range t {
			items = append(items, yamlToValue(e))
		}
		return value.NewList(value.SepComma, items...)
	case map[string]any:
		m := value.NewMap()
		for k, mv := range t {
			m = m.Set(value.Quoted(k), yamlToValue(mv))
		}
		return m
	default:
		return value.Unquoted(fmt.Sprintf("%v", t))
	}
}
