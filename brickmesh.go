// Package brickmesh loads hierarchical, text-based brick model files and
// flattens them into renderable triangle, line, and conditional-line data
// with deduplicated vertices.
//
// Basic usage:
//
//	m, warnings, err := brickmesh.Open("car.mpd").Model()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println(brickmesh.FormatWarnings(warnings))
//	}
//	mesh, err := m.Mesh(4) // flatten the main model in red
//
// Files that reference external parts are driven through a Loader with an
// injected Provider supplying file content:
//
//	loader := brickmesh.NewLoader(provider)
//	loader.OnLoaded(func() { /* all content resolved */ })
//	loader.Load("car.mpd")
//
// For advanced use, the lower-level parse, model, flatten, bake, and
// condline packages are also available.
package brickmesh

import (
	"fmt"
	"os"
	"strings"

	"github.com/tsawler/brickmesh/colors"
	"github.com/tsawler/brickmesh/model"
	"github.com/tsawler/brickmesh/parse"
)

// Warning is a structured report of a recoverable parse issue.
type Warning = parse.Warning

// FormatWarnings renders warnings one per line for display.
func FormatWarnings(warnings []Warning) string {
	var b strings.Builder
	for i, w := range warnings {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(w.String())
	}
	return b.String()
}

// Open prepares a load of the given model file. Terminal operations such as
// Model read and parse the file.
//
// Example:
//
//	m, warnings, err := brickmesh.Open("car.mpd").Model()
func Open(filename string) *Builder {
	return &Builder{filename: filename, options: defaultOptions()}
}

// FromString prepares a load from in-memory file content registered under
// the given identifier. Multi-part documents (FILE sections) are supported.
func FromString(id, content string) *Builder {
	return &Builder{id: id, content: content, haveContent: true, options: defaultOptions()}
}

// Builder configures a load fluently. Methods return a modified copy, so a
// configured Builder can be reused.
type Builder struct {
	filename    string
	id          string
	content     string
	haveContent bool
	options     LoadOptions
}

// WithColors sets the color table used to validate per-line color IDs.
func (b *Builder) WithColors(table colors.Table) *Builder {
	nb := *b
	nb.options = b.options.clone()
	nb.options.table = table
	return &nb
}

// WithMaxDepth bounds flattening recursion for cycle detection.
func (b *Builder) WithMaxDepth(depth int) *Builder {
	nb := *b
	nb.options = b.options.clone()
	nb.options.maxDepth = depth
	return &nb
}

// Model reads, decodes, and parses the content into a Model. This is a
// terminal operation. Parse issues are returned as warnings; the error is
// reserved for I/O and decoding failures.
func (b *Builder) Model() (*Model, []Warning, error) {
	id, content := b.id, b.content
	if !b.haveContent {
		data, err := os.ReadFile(b.filename)
		if err != nil {
			return nil, nil, fmt.Errorf("reading model file: %w", err)
		}
		decoded, err := decodeContent(data)
		if err != nil {
			return nil, nil, err
		}
		id, content = b.filename, decoded
	}

	reg := model.NewRegistry()
	p := parse.NewParser(reg, b.options.table)
	warnings := p.Parse(model.NormalizeID(id), content)
	return &Model{Registry: reg, Colors: b.options.table, options: b.options}, warnings, nil
}

// Must is a helper that wraps a call to a function returning (T, error) and
// panics if the error is non-nil. It is intended for scripts and tests.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustModel wraps a Model call, panicking on error and discarding warnings.
func MustModel(m *Model, _ []Warning, err error) *Model {
	if err != nil {
		panic(err)
	}
	return m
}
