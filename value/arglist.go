package value

// ArgumentList is a List subtype produced by a rest parameter (`...$args`
// as both a positional overflow and a named-argument map). The only
// mutable field in the value model lives here: WereKeywordsAccessed
// observes whether a callee ever read `$kwargs` via the `keywords()`
// built-in, per spec 3.
type ArgumentList struct {
	Positional            []Value
	Named                 map[string]Value
	NamedOrder            []string
	Separator             Separator
	wereKeywordsAccessed  *bool
}

func NewArgumentList(positional []Value, named map[string]Value, order []string, sep Separator) *ArgumentList {
	accessed := false
	return &ArgumentList{Positional: positional, Named: named, NamedOrder: order, Separator: sep, wereKeywordsAccessed: &accessed}
}

func (a *ArgumentList) AsList() List {
	return List{Items: a.Positional, Separator: a.Separator}
}

func (a *ArgumentList) CSSText() string { return a.AsList().CSSText() }
func (a *ArgumentList) Inspect() string { return a.AsList().Inspect() }
func (a *ArgumentList) Truthy() bool    { return true }

func (a *ArgumentList) Equal(o Value) bool {
	oa, ok := o.(*ArgumentList)
	if !ok {
		return false
	}
	return a.AsList().Equal(oa.AsList())
}

// MarkKeywordsAccessed records that the callee consumed `$kwargs`
// (typically via the `keywords()` builtin), suppressing the "No argument
// named ..." error for any named arguments bound into this list.
func (a *ArgumentList) MarkKeywordsAccessed() {
	if a.wereKeywordsAccessed != nil {
		*a.wereKeywordsAccessed = true
	}
}

func (a *ArgumentList) WereKeywordsAccessed() bool {
	return a.wereKeywordsAccessed != nil && *a.wereKeywordsAccessed
}

// Keywords returns the named arguments as a Sass map, in insertion order.
func (a *ArgumentList) Keywords() Map {
	m := NewMap()
	for _, name := range a.NamedOrder {
		m = m.Set(Unquoted(name), a.Named[name])
	}
	return m
}
