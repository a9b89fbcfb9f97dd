package value

import "strings"

// String is a Sass string; Quoted tracks whether it was written with
// quotes, but equality ignores quoting (spec 3).
type String struct {
	Text   string
	Quoted bool
}

func Quoted(text string) String   { return String{Text: text, Quoted: true} }
func Unquoted(text string) String { return String{Text: text, Quoted: false} }

func (s String) CSSText() string { return s.Text }

func (s String) Inspect() string {
	if !s.Quoted {
		return s.Text
	}
	return quoteString(s.Text)
}

func (s String) Truthy() bool { return true }

func (s String) Equal(o Value) bool {
	os, ok := o.(String)
	return ok && os.Text == s.Text
}

func quoteString(text string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range text {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
