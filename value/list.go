package value

import "strings"

// Separator is a list's item joiner. "Undecided" lists (spec 3) have no
// fixed separator until one is observed (e.g. a one-element or empty
// list) and behave as whichever separator a later append settles on.
type Separator int

const (
	SepUndecided Separator = iota
	SepSpace
	SepComma
)

func (s Separator) text() string {
	switch s {
	case SepComma:
		return ", "
	default:
		return " "
	}
}

// List is a Sass list; Map is a subtype viewed differently (as_list
// yields key/value pairs, spec 3) but is represented by its own Go type
// below since a Map carries extra structure a plain List doesn't.
type List struct {
	Items     []Value
	Separator Separator
	Bracketed bool
}

func NewList(sep Separator, items ...Value) List {
	return List{Items: items, Separator: sep}
}

func (l List) CSSText() string { return l.join(func(v Value) string { return v.CSSText() }) }

func (l List) Inspect() string {
	inner := l.join(func(v Value) string { return v.Inspect() })
	if l.Bracketed {
		return "[" + inner + "]"
	}
	if len(l.Items) == 0 {
		return "()"
	}
	return inner
}

func (l List) join(render func(Value) string) string {
	parts := make([]string, len(l.Items))
	for i, it := range l.Items {
		parts[i] = render(it)
	}
	return strings.Join(parts, l.Separator.text())
}

func (l List) Truthy() bool { return true }

func (l List) Equal(o Value) bool {
	ol, ok := o.(List)
	if !ok {
		return false
	}
	if l.Bracketed != ol.Bracketed || len(l.Items) != len(ol.Items) {
		return false
	}
	if len(l.Items) > 1 && l.Separator != ol.Separator {
		return false
	}
	for i := range l.Items {
		if !l.Items[i].Equal(ol.Items[i]) {
			return false
		}
	}
	return true
}

// Map is a Sass map: an insertion-ordered key/value mapping (spec 3).
// Equality ignores insertion order.
type Map struct {
	Keys   []Value
	Values []Value
}

func NewMap() Map { return Map{} }

func (m Map) Get(key Value) (Value, bool) {
	if i := mapKeyIndex(m, key); i >= 0 {
		return m.Values[i], true
	}
	return nil, false
}

// Set returns a new Map with key bound to v, preserving the original
// insertion position if key already existed (spec 3: insertion-ordered).
func (m Map) Set(key, v Value) Map {
	if i := mapKeyIndex(m, key); i >= 0 {
		keys := append([]Value{}, m.Keys...)
		vals := append([]Value{}, m.Values...)
		vals[i] = v
		return Map{Keys: keys, Values: vals}
	}
	return Map{Keys: append(append([]Value{}, m.Keys...), key), Values: append(append([]Value{}, m.Values...), v)}
}

func (m Map) Remove(key Value) Map {
	i := mapKeyIndex(m, key)
	if i < 0 {
		return m
	}
	keys := append(append([]Value{}, m.Keys[:i]...), m.Keys[i+1:]...)
	vals := append(append([]Value{}, m.Values[:i]...), m.Values[i+1:]...)
	return Map{Keys: keys, Values: vals}
}

// CSSText returns the same text as Inspect, since a map has no valid CSS
// rendering; the value package has no helper that rejects a map before
// it is emitted.
func (m Map) CSSText() string { return m.Inspect() }

func (m Map) Inspect() string {
	if len(m.Keys) == 0 {
		return "()"
	}
	parts := make([]string, len(m.Keys))
	for i, k := range m.Keys {
		parts[i] = k.Inspect() + ": " + m.Values[i].Inspect()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (m Map) Truthy() bool { return true }

func (m Map) Equal(o Value) bool {
	om, ok := o.(Map)
	if !ok || len(m.Keys) != len(om.Keys) {
		return false
	}
	for i, k := range m.Keys {
		ov, ok := om.Get(k)
		if !ok || !ov.Equal(m.Values[i]) {
			return false
		}
	}
	return true
}
