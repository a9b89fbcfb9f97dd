package main

// Fixture decoding: the parser that would normally turn .scss source into
// an *ast.Stylesheet is out of scope (spec section 1), so this CLI reads
// a JSON-encoded fixture shaped directly after the ast package's node
// set and decodes it by a "type" discriminator, the way a debugging
// harness over an externally-parsed AST would. Grounded on the teacher's
// own "read options from the command line, hand off to the compiler"
// split in cmd/lessc-go/main.go, adapted here to a JSON AST document
// instead of raw source text.

import (
	"encoding/json"
	"fmt"

	"github.com/sasscore/sasscore/ast"
)

type fixtureDoc struct {
	URI  string            `json:"uri"`
	Body []json.RawMessage `json:"body"`
}

func decodeFixture(data []byte) (*ast.Stylesheet, error) {
	var doc fixtureDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	body, err := decodeStatements(doc.Body)
	if err != nil {
		return nil, err
	}
	return &ast.Stylesheet{Body: body, URI: doc.URI}, nil
}

type typed struct {
	Type string `json:"type"`
}

func decodeStatements(raws []json.RawMessage) ([]ast.Statement, error) {
	out := make([]ast.Statement, 0, len(raws))
	for _, r := range raws {
		s, err := decodeStatement(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeExpressions(raws []json.RawMessage) ([]ast.Expression, error) {
	out := make([]ast.Expression, 0, len(raws))
	for _, r := range raws {
		e, err := decodeExpression(r)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeInterp(raw json.RawMessage) (ast.Interpolation, error) {
	if len(raw) == 0 {
		return ast.Interpolation{Literals: []string{""}}, nil
	}
	var body struct {
		Literals    []string          `json:"literals"`
		Expressions []json.RawMessage `json:"expressions"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ast.Interpolation{}, fmt.Errorf("decode interpolation: %w", err)
	}
	exprs, err := decodeExpressions(body.Expressions)
	if err != nil {
		return ast.Interpolation{}, err
	}
	if len(body.Literals) == 0 {
		body.Literals = []string{""}
	}
	return ast.Interpolation{Literals: body.Literals, Expressions: exprs}, nil
}

func decodeNamed(raw map[string]json.RawMessage) (map[string]ast.Expression, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]ast.Expression, len(raw))
	for k, v := range raw {
		e, err := decodeExpression(v)
		if err != nil {
			return nil, err
		}
		out[k] = e
	}
	return out, nil
}

func decodeArguments(raw []json.RawMessage) ([]ast.Argument, error) {
	out := make([]ast.Argument, 0, len(raw))
	for _, r := range raw {
		var a struct {
			Name    string          `json:"name"`
			Default json.RawMessage `json:"default"`
			Rest    bool            `json:"rest"`
		}
		if err := json.Unmarshal(r, &a); err != nil {
			return nil, fmt.Errorf("decode argument: %w", err)
		}
		var def ast.Expression
		if len(a.Default) > 0 {
			d, err := decodeExpression(a.Default)
			if err != nil {
				return nil, err
			}
			def = d
		}
		out = append(out, ast.Argument{Name: a.Name, Default: def, Rest: a.Rest})
	}
	return out, nil
}

func decodeExpression(raw json.RawMessage) (ast.Expression, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return &ast.NullLiteral{}, nil
	}
	var t typed
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode expression: %w", err)
	}
	switch t.Type {
	case "Null":
		return &ast.NullLiteral{}, nil
	case "Bool":
		var b struct {
			Value bool `json:"value"`
		}
		json.Unmarshal(raw, &b)
		return &ast.BoolLiteral{Value: b.Value}, nil
	case "Number":
		var n struct {
			Value float64 `json:"value"`
			Unit  string  `json:"unit"`
		}
		json.Unmarshal(raw, &n)
		return &ast.NumberLiteral{Value: n.Value, Unit: n.Unit}, nil
	case "String":
		var s struct {
			Text   json.RawMessage `json:"text"`
			Quoted bool            `json:"quoted"`
		}
		json.Unmarshal(raw, &s)
		interp, err := decodeInterp(s.Text)
		if err != nil {
			return nil, err
		}
		return &ast.StringLiteral{Text: interp, Quoted: s.Quoted}, nil
	case "Color":
		var c struct {
			R, G, B  int
			A        float64
			Original string
		}
		json.Unmarshal(raw, &c)
		return &ast.ColorLiteral{R: c.R, G: c.G, B: c.B, A: c.A, Original: c.Original}, nil
	case "List":
		var l struct {
			Items     []json.RawMessage `json:"items"`
			Separator string            `json:"separator"`
			Bracketed bool              `json:"bracketed"`
		}
		json.Unmarshal(raw, &l)
		items, err := decodeExpressions(l.Items)
		if err != nil {
			return nil, err
		}
		return &ast.ListExpr{Items: items, Separator: l.Separator, Bracketed: l.Bracketed}, nil
	case "Map":
		var m struct {
			Keys   []json.RawMessage `json:"keys"`
			Values []json.RawMessage `json:"values"`
		}
		json.Unmarshal(raw, &m)
		keys, err := decodeExpressions(m.Keys)
		if err != nil {
			return nil, err
		}
		values, err := decodeExpressions(m.Values)
		if err != nil {
			return nil, err
		}
		return &ast.MapExpr{Keys: keys, Values: values}, nil
	case "Variable":
		var v struct {
			Name      string `json:"name"`
			Namespace string `json:"namespace"`
		}
		json.Unmarshal(raw, &v)
		return &ast.VariableExpr{Name: v.Name, Namespace: v.Namespace}, nil
	case "BinaryOp":
		var b struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		json.Unmarshal(raw, &b)
		left, err := decodeExpression(b.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(b.Right)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOp{Op: b.Op, Left: left, Right: right}, nil
	case "UnaryOp":
		var u struct {
			Op      string          `json:"op"`
			Operand json.RawMessage `json:"operand"`
		}
		json.Unmarshal(raw, &u)
		operand, err := decodeExpression(u.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: u.Op, Operand: operand}, nil
	case "Paren":
		var p struct {
			Inner json.RawMessage `json:"inner"`
		}
		json.Unmarshal(raw, &p)
		inner, err := decodeExpression(p.Inner)
		if err != nil {
			return nil, err
		}
		return &ast.ParenExpr{Inner: inner}, nil
	case "Call":
		var c struct {
			Name       string                     `json:"name"`
			Namespace  string                     `json:"namespace"`
			Positional []json.RawMessage          `json:"positional"`
			Named      map[string]json.RawMessage `json:"named"`
			NamedOrder []string                   `json:"namedOrder"`
			Rest       json.RawMessage            `json:"rest"`
			RestMap    json.RawMessage            `json:"restMap"`
		}
		json.Unmarshal(raw, &c)
		positional, err := decodeExpressions(c.Positional)
		if err != nil {
			return nil, err
		}
		named, err := decodeNamed(c.Named)
		if err != nil {
			return nil, err
		}
		call := &ast.FunctionCallExpr{Name: c.Name, Namespace: c.Namespace, Positional: positional, Named: named, NamedOrder: c.NamedOrder}
		if len(c.Rest) > 0 {
			call.Rest, err = decodeExpression(c.Rest)
			if err != nil {
				return nil, err
			}
		}
		if len(c.RestMap) > 0 {
			call.RestMap, err = decodeExpression(c.RestMap)
			if err != nil {
				return nil, err
			}
		}
		return call, nil
	case "If":
		var i struct {
			Condition json.RawMessage `json:"condition"`
			IfTrue    json.RawMessage `json:"ifTrue"`
			IfFalse   json.RawMessage `json:"ifFalse"`
		}
		json.Unmarshal(raw, &i)
		cond, err := decodeExpression(i.Condition)
		if err != nil {
			return nil, err
		}
		ifTrue, err := decodeExpression(i.IfTrue)
		if err != nil {
			return nil, err
		}
		ifFalse, err := decodeExpression(i.IfFalse)
		if err != nil {
			return nil, err
		}
		return &ast.IfExpr{Condition: cond, IfTrue: ifTrue, IfFalse: ifFalse}, nil
	case "Selector":
		return &ast.SelectorExpr{}, nil
	case "ParentSelectorRef":
		return &ast.ParentSelectorRef{}, nil
	case "FunctionRef":
		var f struct {
			Name string `json:"name"`
		}
		json.Unmarshal(raw, &f)
		return &ast.FunctionRefExpr{Name: f.Name}, nil
	default:
		return nil, fmt.Errorf("unknown expression fixture type %q", t.Type)
	}
}

func decodeStatement(raw json.RawMessage) (ast.Statement, error) {
	var t typed
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode statement: %w", err)
	}
	switch t.Type {
	case "VariableDecl":
		var v struct {
			Name      string          `json:"name"`
			Namespace string          `json:"namespace"`
			Value     json.RawMessage `json:"value"`
			Global    bool            `json:"global"`
			Default   bool            `json:"default"`
			Guarded   bool            `json:"guarded"`
		}
		json.Unmarshal(raw, &v)
		val, err := decodeExpression(v.Value)
		if err != nil {
			return nil, err
		}
		return &ast.VariableDecl{Name: v.Name, Namespace: v.Namespace, Value: val, Global: v.Global, Default: v.Default, Guarded: v.Guarded}, nil
	case "StyleRule":
		var s struct {
			Selector json.RawMessage   `json:"selector"`
			Body     []json.RawMessage `json:"body"`
		}
		json.Unmarshal(raw, &s)
		sel, err := decodeInterp(s.Selector)
		if err != nil {
			return nil, err
		}
		body, err := decodeStatements(s.Body)
		if err != nil {
			return nil, err
		}
		return &ast.StyleRule{Selector: sel, Body: body}, nil
	case "Declaration":
		var d struct {
			Name  json.RawMessage   `json:"name"`
			Value json.RawMessage   `json:"value"`
			Body  []json.RawMessage `json:"body"`
		}
		json.Unmarshal(raw, &d)
		name, err := decodeInterp(d.Name)
		if err != nil {
			return nil, err
		}
		var val ast.Expression
		if len(d.Value) > 0 {
			val, err = decodeExpression(d.Value)
			if err != nil {
				return nil, err
			}
		}
		body, err := decodeStatements(d.Body)
		if err != nil {
			return nil, err
		}
		return &ast.Declaration{Name: name, Value: val, Body: body}, nil
	case "Media":
		var m struct {
			Query json.RawMessage   `json:"query"`
			Body  []json.RawMessage `json:"body"`
		}
		json.Unmarshal(raw, &m)
		query, err := decodeInterp(m.Query)
		if err != nil {
			return nil, err
		}
		body, err := decodeStatements(m.Body)
		if err != nil {
			return nil, err
		}
		return &ast.MediaRule{Query: query, Body: body}, nil
	case "Supports":
		var s struct {
			Condition json.RawMessage   `json:"condition"`
			Body      []json.RawMessage `json:"body"`
		}
		json.Unmarshal(raw, &s)
		cond, err := decodeExpression(s.Condition)
		if err != nil {
			return nil, err
		}
		body, err := decodeStatements(s.Body)
		if err != nil {
			return nil, err
		}
		return &ast.SupportsRule{Condition: cond, Body: body}, nil
	case "AtRoot":
		var a struct {
			Query json.RawMessage   `json:"query"`
			Body  []json.RawMessage `json:"body"`
		}
		json.Unmarshal(raw, &a)
		query, err := decodeInterp(a.Query)
		if err != nil {
			return nil, err
		}
		body, err := decodeStatements(a.Body)
		if err != nil {
			return nil, err
		}
		return &ast.AtRootRule{Query: query, Body: body}, nil
	case "UnknownAtRule":
		var u struct {
			Name      string            `json:"name"`
			Value     json.RawMessage   `json:"value"`
			Childless bool              `json:"childless"`
			Body      []json.RawMessage `json:"body"`
		}
		json.Unmarshal(raw, &u)
		value, err := decodeInterp(u.Value)
		if err != nil {
			return nil, err
		}
		body, err := decodeStatements(u.Body)
		if err != nil {
			return nil, err
		}
		return &ast.UnknownAtRule{Name: u.Name, Value: value, Childless: u.Childless, Body: body}, nil
	case "Keyframes":
		var k struct {
			Prefix string            `json:"prefix"`
			Name   json.RawMessage   `json:"name"`
			Body   []json.RawMessage `json:"body"`
		}
		json.Unmarshal(raw, &k)
		name, err := decodeExpression(k.Name)
		if err != nil {
			return nil, err
		}
		body, err := decodeStatements(k.Body)
		if err != nil {
			return nil, err
		}
		return &ast.KeyframesRule{Prefix: k.Prefix, Name: name, Body: body}, nil
	case "KeyframeBlock":
		var k struct {
			Selectors []json.RawMessage `json:"selectors"`
			Body      []json.RawMessage `json:"body"`
		}
		json.Unmarshal(raw, &k)
		selectors := make([]ast.Interpolation, 0, len(k.Selectors))
		for _, s := range k.Selectors {
			interp, err := decodeInterp(s)
			if err != nil {
				return nil, err
			}
			selectors = append(selectors, interp)
		}
		body, err := decodeStatements(k.Body)
		if err != nil {
			return nil, err
		}
		return &ast.KeyframeBlock{Selectors: selectors, Body: body}, nil
	case "Import":
		var i struct {
			URLs []struct {
				URL      string          `json:"url"`
				Supports json.RawMessage `json:"supports"`
				Media    json.RawMessage `json:"media"`
			} `json:"urls"`
		}
		json.Unmarshal(raw, &i)
		targets := make([]ast.ImportTarget, 0, len(i.URLs))
		for _, u := range i.URLs {
			target := ast.ImportTarget{URL: u.URL}
			if len(u.Supports) > 0 {
				s, err := decodeExpression(u.Supports)
				if err != nil {
					return nil, err
				}
				target.Supports = s
			}
			media, err := decodeInterp(u.Media)
			if err != nil {
				return nil, err
			}
			target.Media = media
			targets = append(targets, target)
		}
		return &ast.ImportRule{URLs: targets}, nil
	case "Extend":
		var x struct {
			Target   json.RawMessage `json:"target"`
			Optional bool            `json:"optional"`
		}
		json.Unmarshal(raw, &x)
		target, err := decodeInterp(x.Target)
		if err != nil {
			return nil, err
		}
		return &ast.ExtendRule{Target: target, Optional: x.Optional}, nil
	case "If":
		var i struct {
			Clauses []struct {
				Condition json.RawMessage   `json:"condition"`
				Body      []json.RawMessage `json:"body"`
			} `json:"clauses"`
		}
		json.Unmarshal(raw, &i)
		clauses := make([]ast.IfClause, 0, len(i.Clauses))
		for _, c := range i.Clauses {
			var cond ast.Expression
			if len(c.Condition) > 0 {
				var err error
				cond, err = decodeExpression(c.Condition)
				if err != nil {
					return nil, err
				}
			}
			body, err := decodeStatements(c.Body)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, ast.IfClause{Condition: cond, Body: body})
		}
		return &ast.IfRule{Clauses: clauses}, nil
	case "Each":
		var e struct {
			Variables []string          `json:"variables"`
			List      json.RawMessage   `json:"list"`
			Body      []json.RawMessage `json:"body"`
		}
		json.Unmarshal(raw, &e)
		list, err := decodeExpression(e.List)
		if err != nil {
			return nil, err
		}
		body, err := decodeStatements(e.Body)
		if err != nil {
			return nil, err
		}
		return &ast.EachRule{Variables: e.Variables, List: list, Body: body}, nil
	case "For":
		var f struct {
			Variable  string            `json:"variable"`
			From      json.RawMessage   `json:"from"`
			To        json.RawMessage   `json:"to"`
			Exclusive bool              `json:"exclusive"`
			Body      []json.RawMessage `json:"body"`
		}
		json.Unmarshal(raw, &f)
		from, err := decodeExpression(f.From)
		if err != nil {
			return nil, err
		}
		to, err := decodeExpression(f.To)
		if err != nil {
			return nil, err
		}
		body, err := decodeStatements(f.Body)
		if err != nil {
			return nil, err
		}
		return &ast.ForRule{Variable: f.Variable, From: from, To: to, Exclusive: f.Exclusive, Body: body}, nil
	case "While":
		var w struct {
			Condition json.RawMessage   `json:"condition"`
			Body      []json.RawMessage `json:"body"`
		}
		json.Unmarshal(raw, &w)
		cond, err := decodeExpression(w.Condition)
		if err != nil {
			return nil, err
		}
		body, err := decodeStatements(w.Body)
		if err != nil {
			return nil, err
		}
		return &ast.WhileRule{Condition: cond, Body: body}, nil
	case "MixinDecl":
		var m struct {
			Name       string            `json:"name"`
			Arguments  []json.RawMessage `json:"arguments"`
			RestArg    string            `json:"restArg"`
			Body       []json.RawMessage `json:"body"`
			HasContent bool              `json:"hasContent"`
		}
		json.Unmarshal(raw, &m)
		args, err := decodeArguments(m.Arguments)
		if err != nil {
			return nil, err
		}
		body, err := decodeStatements(m.Body)
		if err != nil {
			return nil, err
		}
		return &ast.MixinDecl{Name: m.Name, Arguments: args, RestArg: m.RestArg, Body: body, HasContent: m.HasContent}, nil
	case "Include":
		var inc struct {
			Name       string                     `json:"name"`
			Namespace  string                     `json:"namespace"`
			Positional []json.RawMessage          `json:"positional"`
			Named      map[string]json.RawMessage `json:"named"`
			NamedOrder []string                   `json:"namedOrder"`
			RestArg    json.RawMessage            `json:"restArg"`
			Content    *struct {
				Arguments []json.RawMessage `json:"arguments"`
				Body      []json.RawMessage `json:"body"`
			} `json:"content"`
		}
		json.Unmarshal(raw, &inc)
		positional, err := decodeExpressions(inc.Positional)
		if err != nil {
			return nil, err
		}
		named, err := decodeNamed(inc.Named)
		if err != nil {
			return nil, err
		}
		include := &ast.IncludeRule{Name: inc.Name, Namespace: inc.Namespace, Positional: positional, Named: named, NamedOrder: inc.NamedOrder}
		if len(inc.RestArg) > 0 {
			include.RestArg, err = decodeExpression(inc.RestArg)
			if err != nil {
				return nil, err
			}
		}
		if inc.Content != nil {
			args, err := decodeArguments(inc.Content.Arguments)
			if err != nil {
				return nil, err
			}
			body, err := decodeStatements(inc.Content.Body)
			if err != nil {
				return nil, err
			}
			include.Content = &ast.ContentBlock{Arguments: args, Body: body}
		}
		return include, nil
	case "Content":
		var c struct {
			Positional []json.RawMessage          `json:"positional"`
			Named      map[string]json.RawMessage `json:"named"`
		}
		json.Unmarshal(raw, &c)
		positional, err := decodeExpressions(c.Positional)
		if err != nil {
			return nil, err
		}
		named, err := decodeNamed(c.Named)
		if err != nil {
			return nil, err
		}
		return &ast.ContentRule{Positional: positional, Named: named}, nil
	case "FunctionDecl":
		var f struct {
			Name      string            `json:"name"`
			Arguments []json.RawMessage `json:"arguments"`
			RestArg   string            `json:"restArg"`
			Body      []json.RawMessage `json:"body"`
		}
		json.Unmarshal(raw, &f)
		args, err := decodeArguments(f.Arguments)
		if err != nil {
			return nil, err
		}
		body, err := decodeStatements(f.Body)
		if err != nil {
			return nil, err
		}
		return &ast.FunctionDecl{Name: f.Name, Arguments: args, RestArg: f.RestArg, Body: body}, nil
	case "Return":
		var r struct {
			Value json.RawMessage `json:"value"`
		}
		json.Unmarshal(raw, &r)
		val, err := decodeExpression(r.Value)
		if err != nil {
			return nil, err
		}
		return &ast.ReturnRule{Value: val}, nil
	case "Use":
		var u struct {
			URL           string                     `json:"url"`
			Namespace     string                     `json:"namespace"`
			Configuration []map[string]json.RawMessage `json:"configuration"`
		}
		json.Unmarshal(raw, &u)
		cfg, err := decodeConfigEntries(raw)
		if err != nil {
			return nil, err
		}
		return &ast.UseRule{URL: u.URL, Namespace: u.Namespace, Configuration: cfg}, nil
	case "Forward":
		var f struct {
			URL      string   `json:"url"`
			Prefix   string   `json:"prefix"`
			ShowOnly []string `json:"showOnly"`
			Hide     []string `json:"hide"`
		}
		json.Unmarshal(raw, &f)
		cfg, err := decodeConfigEntries(raw)
		if err != nil {
			return nil, err
		}
		return &ast.ForwardRule{URL: f.URL, Prefix: f.Prefix, ShowOnly: f.ShowOnly, Hide: f.Hide, Configuration: cfg}, nil
	case "Warn":
		var w struct {
			Value json.RawMessage `json:"value"`
		}
		json.Unmarshal(raw, &w)
		val, err := decodeExpression(w.Value)
		if err != nil {
			return nil, err
		}
		return &ast.WarnRule{Value: val}, nil
	case "Debug":
		var d struct {
			Value json.RawMessage `json:"value"`
		}
		json.Unmarshal(raw, &d)
		val, err := decodeExpression(d.Value)
		if err != nil {
			return nil, err
		}
		return &ast.DebugRule{Value: val}, nil
	case "Error":
		var e struct {
			Value json.RawMessage `json:"value"`
		}
		json.Unmarshal(raw, &e)
		val, err := decodeExpression(e.Value)
		if err != nil {
			return nil, err
		}
		return &ast.ErrorRule{Value: val}, nil
	default:
		return nil, fmt.Errorf("unknown statement fixture type %q", t.Type)
	}
}

func decodeConfigEntries(raw json.RawMessage) ([]ast.ConfigEntry, error) {
	var c struct {
		Configuration []struct {
			Name    string          `json:"name"`
			Value   json.RawMessage `json:"value"`
			Default bool            `json:"default"`
		} `json:"configuration"`
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	out := make([]ast.ConfigEntry, 0, len(c.Configuration))
	for _, e := range c.Configuration {
		v, err := decodeExpression(e.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, ast.ConfigEntry{Name: e.Name, Value: v, Default: e.Default})
	}
	return out, nil
}
