package main

// cssToJSON projects the evaluator's output tree (css.Node) into a
// JSON-safe document for the compile command's stdout. css.Node's base
// struct keeps parent/children unexported, so this walks the public
// accessors rather than relying on encoding/json reflection, the way the
// teacher's toCSS walk in less_go/ruleset.go renders a tree by explicit
// recursive dispatch instead of struct reflection.
import "github.com/sasscore/sasscore/css"

type cssNodeJSON struct {
	Kind     string        `json:"kind"`
	Selector string        `json:"selector,omitempty"`
	Name     string        `json:"name,omitempty"`
	Value    string        `json:"value,omitempty"`
	Queries  string        `json:"queries,omitempty"`
	Children []cssNodeJSON `json:"children,omitempty"`
}

func cssToJSON(n css.Node) cssNodeJSON {
	out := cssNodeJSON{Kind: kindName(n.Kind())}
	switch v := n.(type) {
	case *css.StyleRule:
		out.Selector = v.Selector
	case *css.AtRule:
		out.Name = v.Name
		out.Value = v.Value
	case *css.MediaRule:
		out.Queries = v.Queries
	case *css.SupportsRule:
		out.Value = v.Condition
	case *css.KeyframeBlock:
		if len(v.Selectors) > 0 {
			out.Selector = v.Selectors[0]
		}
	case *css.Declaration:
		out.Name = v.Name
		out.Value = v.Value
	case *css.Import:
		out.Value = v.URL
	case *css.Comment:
		out.Value = v.Text
	}
	for _, c := range n.Children() {
		out.Children = append(out.Children, cssToJSON(c))
	}
	return out
}

func kindName(k css.Kind) string {
	switch k {
	case css.KindStylesheet:
		return "stylesheet"
	case css.KindStyleRule:
		return "rule"
	case css.KindAtRule:
		return "at-rule"
	case css.KindMediaRule:
		return "media"
	case css.KindSupportsRule:
		return "supports"
	case css.KindKeyframeBlock:
		return "keyframe-block"
	case css.KindDeclaration:
		return "declaration"
	case css.KindImport:
		return "import"
	case css.KindComment:
		return "comment"
	default:
		return "unknown"
	}
}
