// Package importer declares the importer/import-cache abstraction the
// module loader consults (spec section 1: "Importer / ImportCache —
// ...The core sees a single operation import(url, base, for_import)").
// Concrete importers (filesystem, package-manager, in-memory fixture) are
// external collaborators; this package only fixes the contract.
package importer

import "github.com/sasscore/sasscore/ast"

// Importer resolves a textual URL + base to a canonical URL, an opaque
// importer identity (used to scope relative imports inside the loaded
// stylesheet), and a parsed Stylesheet. Load returns ok=false (with a nil
// error) when the importer simply doesn't recognize the URL, which the
// loader reports as "Can't find stylesheet to import."; it returns an error only when
// the importer recognizes the URL but fails to produce a stylesheet.
type Importer interface {
	Load(url, baseURL string, forImport bool) (importerID string, canonicalURL string, stylesheet *ast.Stylesheet, ok bool, err error)
	// Humanize renders a canonical URL for display in stack-frame
	// messages (spec section 6).
	Humanize(canonicalURL string) string
}
