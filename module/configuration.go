package module

import (
	"github.com/sasscore/sasscore/errs"
	"github.com/sasscore/sasscore/value"
)

// ConfigEntry is one `with(...)`/`@forward ... with` override (spec 3:
// "Configuration is a mapping name -> (value, span, assignment_node)").
type ConfigEntry struct {
	Value   value.Value
	Span    errs.Span
	Default bool // the override's !default flag; nothing reads it, so a default entry is applied like any other
}

// Configuration is the set of overrides passed to a loaded module.
// Implicit marks a configuration propagated without an explicit `with`
// clause from the user: it is treated as empty for composition checks
// but still permits re-importing an already-loaded module (spec 4.6).
type Configuration struct {
	Entries  map[string]*ConfigEntry
	Implicit bool
}

func EmptyConfiguration() *Configuration {
	return &Configuration{Entries: map[string]*ConfigEntry{}, Implicit: true}
}

func NewConfiguration(entries map[string]*ConfigEntry) *Configuration {
	return &Configuration{Entries: entries, Implicit: len(entries) == 0}
}

func (c *Configuration) IsEmpty() bool { return c == nil || len(c.Entries) == 0 }

// Consumed tracks which configuration keys a module actually applied, so
// @use/@forward can report leftover unused keys as an error (spec 4.7).
type Consumed struct {
	seen map[string]bool
}

func NewConsumed() *Consumed { return &Consumed{seen: map[string]bool{}} }

func (c *Consumed) Mark(name string) { c.seen[name] = true }

func (c *Consumed) Leftover(cfg *Configuration) []string {
	var out []string
	if cfg == nil {
		return out
	}
	for name := range cfg.Entries {
		if !c.seen[name] {
			out = append(out, name)
		}
	}
	return out
}
