package selector

import (
	"strings"

	"github.com/sasscore/sasscore/errs"
)

// Parse turns interpolated selector text back into a List (spec 4.5: one
// of the re-parse targets). This is a minimal selector grammar, not a
// full CSS selector parser: it recognizes type selectors, `.class`,
// `#id`, `%placeholder`, `:pseudo(...)`, `[attr...]`, `&`, and the
// combinators `>`, `+`, `~`, descendant (whitespace).
func Parse(text string) (List, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return List{}, errs.NewScriptError("expected selector, found end of input")
	}
	var list List
	for _, part := range splitTopLevel(text, ',') {
		cx, err := parseComplex(strings.TrimSpace(part))
		if err != nil {
			return List{}, err
		}
		list.Complexes = append(list.Complexes, cx)
	}
	return list, nil
}

// ParseKeyframeSelectors parses the comma-separated percentage/keyword
// selector list used inside @keyframes blocks (spec 3: KeyframeBlock).
func ParseKeyframeSelectors(text string) ([]string, error) {
	var out []string
	for _, part := range splitTopLevel(text, ',') {
		p := strings.TrimSpace(part)
		if p == "" {
			return nil, errs.NewScriptError("expected keyframe selector, found end of input")
		}
		out = append(out, p)
	}
	return out, nil
}

func splitTopLevel(s string, sep byte) []string {
	var out []string
	depth := 0
	start := 0
	inString := byte(0)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inString != 0:
			if c == inString {
				inString = 0
			}
		case c == '"' || c == '\'':
			inString = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == sep && depth == 0:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func parseComplex(s string) (Complex, error) {
	var cx Complex
	pendingCombinator := ""
	i := 0
	for i < len(s) {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			break
		}
		if c := s[i]; c == '>' || c == '+' || c == '~' {
			pendingCombinator = string(c)
			i++
			continue
		}
		end := findCompoundEnd(s, i)
		if end == i {
			return Complex{}, errs.NewScriptError("expected selector, found %q", s[i:])
		}
		compoundText := s[i:end]
		compound, err := parseCompound(compoundText)
		if err != nil {
			return Complex{}, err
		}
		cx.Components = append(cx.Components, Component{Combinator: pendingCombinator, Compound: compound})
		pendingCombinator = ""
		i = end
	}
	if pendingCombinator != "" {
		return Complex{}, errs.NewScriptError("expected selector after combinator %q", pendingCombinator)
	}
	return cx, nil
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' }

// findCompoundEnd scans from i to the end of one compound selector: a run
// of simple-selector tokens with no intervening whitespace or
// combinator.
func findCompoundEnd(s string, i int) int {
	start := i
	for i < len(s) {
		c := s[i]
		if isSpace(c) || c == '>' || c == '+' || c == '~' || c == ',' {
			break
		}
		switch c {
		case '[':
			depth := 1
			i++
			for i < len(s) && depth > 0 {
				if s[i] == '[' {
					depth++
				} else if s[i] == ']' {
					depth--
				}
				i++
			}
		case ':':
			i++
			for i < len(s) && (isIdentChar(s[i])) {
				i++
			}
			if i < len(s) && s[i] == '(' {
				depth := 1
				i++
				for i < len(s) && depth > 0 {
					if s[i] == '(' {
						depth++
					} else if s[i] == ')' {
						depth--
					}
					i++
				}
			}
		default:
			i++
		}
	}
	if i == start {
		return start
	}
	return i
}

func isIdentChar(c byte) bool {
	return c == '-' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func parseCompound(s string) (Compound, error) {
	var c Compound
	i := 0
	for i < len(s) {
		switch s[i] {
		case '&':
			c.Simples = append(c.Simples, Simple{Text: "&", IsParent: true})
			i++
		case '.', '#', '%':
			j := i + 1
			for j < len(s) && isIdentChar(s[j]) {
				j++
			}
			c.Simples = append(c.Simples, Simple{Text: s[i:j]})
			i = j
		case ':':
			j := i + 1
			for j < len(s) && s[j] == ':' {
				j++
			}
			for j < len(s) && isIdentChar(s[j]) {
				j++
			}
			if j < len(s) && s[j] == '(' {
				depth := 1
				j++
				for j < len(s) && depth > 0 {
					if s[j] == '(' {
						depth++
					} else if s[j] == ')' {
						depth--
					}
					j++
				}
			}
			c.Simples = append(c.Simples, Simple{Text: s[i:j]})
			i = j
		case '[':
			depth := 1
			j := i + 1
			for j < len(s) && depth > 0 {
				if s[j] == '[' {
					depth++
				} else if s[j] == ']' {
					depth--
				}
				j++
			}
			c.Simples = append(c.Simples, Simple{Text: s[i:j]})
			i = j
		default:
			j := i
			for j < len(s) && isIdentChar(s[j]) {
				j++
			}
			if j == i {
				return Compound{}, errs.NewScriptError("expected selector, found %q", s[i:])
			}
			c.Simples = append(c.Simples, Simple{Text: s[i:j]})
			i = j
		}
	}
	if len(c.Simples) == 0 {
		return Compound{}, errs.NewScriptError("expected selector, found end of input")
	}
	return c, nil
}
