package main

// fixtureImporter resolves @use/@forward/@import URLs against JSON
// fixture files on disk, since the real importer (filesystem, package
// manager) is an external collaborator the core only calls through the
// importer.Importer interface (spec section 1). Grounded on the shape of
// the teacher's file-based import resolution in
// less_go/file_manager.go/import.go, adapted to resolve to fixture JSON
// instead of re-entering a LESS parser.
import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sasscore/sasscore/ast"
)

type fixtureImporter struct {
	root string
}

func newFixtureImporter(root string) *fixtureImporter {
	return &fixtureImporter{root: root}
}

func (f *fixtureImporter) Load(url, baseURL string, forImport bool) (string, string, *ast.Stylesheet, bool, error) {
	path := f.resolve(url, baseURL)
	if path == "" {
		return "", "", nil, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", nil, false, nil
		}
		return "", "", nil, false, err
	}
	sheet, err := decodeFixture(data)
	if err != nil {
		return "", "", nil, false, err
	}
	canonical := f.canonicalize(path)
	sheet.URI = canonical
	return "fixture:" + canonical, canonical, sheet, true, nil
}

func (f *fixtureImporter) Humanize(canonicalURL string) string {
	return strings.TrimPrefix(canonicalURL, f.root+string(filepath.Separator))
}

func (f *fixtureImporter) canonicalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// resolve tries url (with a .json extension added unless it already has
// one) and then the same name with a leading underscore, the Sass
// "partial" naming convention, restricted to the JSON fixture encoding
// this CLI reads.
func (f *fixtureImporter) resolve(url, baseURL string) string {
	dir := f.root
	if baseURL != "" {
		dir = filepath.Dir(baseURL)
	}
	candidate := url
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(dir, candidate)
	}
	for _, p := range candidatePaths(candidate) {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func candidatePaths(base string) []string {
	dir, name := filepath.Split(base)
	var names []string
	if strings.HasSuffix(name, ".json") {
		names = []string{name}
	} else {
		names = []string{name + ".json"}
	}
	var out []string
	for _, n := range names {
		out = append(out, filepath.Join(dir, n))
		if !strings.HasPrefix(n, "_") {
			out = append(out, filepath.Join(dir, "_"+n))
		}
	}
	return out
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
