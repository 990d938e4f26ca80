package brickmesh

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/tsawler/brickmesh/colors"
	"github.com/tsawler/brickmesh/model"
	"github.com/tsawler/brickmesh/parse"
)

// Provider supplies raw file content for an identifier. Fetch must call
// deliver exactly once, possibly asynchronously; the loader issues at most
// one Fetch per identifier and never retries or cancels.
type Provider interface {
	Fetch(id string, deliver func(content []byte, err error))
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(id string, deliver func(content []byte, err error))

// Fetch implements Provider.
func (f ProviderFunc) Fetch(id string, deliver func(content []byte, err error)) {
	f(id, deliver)
}

// Loader coordinates retrieval and parsing of a model and its referenced
// part files. It tracks an outstanding-request counter and reports progress
// whenever the counter sits at zero. Completion reporting is
// level-triggered: the callback may fire more than once, and callers
// needing one-shot semantics must suppress repeats themselves.
//
// The loader is single-threaded: the provider must invoke deliver on the
// same logical thread that calls Load.
type Loader struct {
	reg      *model.Registry
	provider Provider
	options  LoadOptions

	requested   map[string]bool
	outstanding int
	onLoaded    func()
	warnings    []Warning
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithColorTable sets the color table used when parsing fetched content.
func WithColorTable(t colors.Table) LoaderOption {
	return func(l *Loader) {
		l.options.table = t
	}
}

// NewLoader creates a loader fetching content through the given provider.
func NewLoader(provider Provider, opts ...LoaderOption) *Loader {
	l := &Loader{
		reg:       model.NewRegistry(),
		provider:  provider,
		options:   defaultOptions(),
		requested: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OnLoaded registers the all-loaded callback. It fires whenever the
// outstanding-request counter reports at zero, which can happen more than
// once.
func (l *Loader) OnLoaded(fn func()) {
	l.onLoaded = fn
}

// Registry returns the registry that fetched content is parsed into.
func (l *Loader) Registry() *model.Registry {
	return l.reg
}

// Warnings returns all warnings accumulated across fetched files.
func (l *Loader) Warnings() []Warning {
	return l.warnings
}

// Outstanding returns the number of requests not yet delivered.
func (l *Loader) Outstanding() int {
	return l.outstanding
}

// Model wraps the loader's registry in a Model for flattening.
func (l *Loader) Model() *Model {
	return &Model{Registry: l.reg, Colors: l.options.table, options: l.options}
}

// Load requests the content for an identifier. A repeat request for an
// already-seen identifier is a no-op that still reports progress; an
// identifier already present in the registry is not fetched.
func (l *Loader) Load(id string) {
	id = model.NormalizeID(id)
	if l.requested[id] || l.reg.Contains(id) {
		l.requested[id] = true
		l.reportProgress()
		return
	}
	l.requested[id] = true
	l.outstanding++
	l.provider.Fetch(id, func(content []byte, err error) {
		l.deliver(id, content, err)
	})
}

// deliver parses fetched content, requests any newly referenced
// identifiers, and then retires this request from the counter. Child
// requests are issued before the decrement so the counter cannot touch
// zero while references remain unrequested.
func (l *Loader) deliver(id string, content []byte, err error) {
	if err != nil {
		l.warnings = append(l.warnings, Warning{
			Message: fmt.Sprintf("fetching %s: %v", id, err),
			PartID:  id,
			Error:   true,
		})
	} else if text, derr := decodeContent(content); derr != nil {
		l.warnings = append(l.warnings, Warning{
			Message: derr.Error(),
			PartID:  id,
			Error:   true,
		})
	} else {
		p := parse.NewParser(l.reg, l.options.table)
		l.warnings = append(l.warnings, p.Parse(id, text)...)
		for _, missing := range l.reg.MissingReferences() {
			l.Load(missing)
		}
	}
	l.outstanding--
	l.reportProgress()
}

// reportProgress signals the all-loaded callback while the counter is at
// zero. Level-triggered on purpose; see OnLoaded.
func (l *Loader) reportProgress() {
	if l.outstanding == 0 && l.onLoaded != nil {
		l.onLoaded()
	}
}

// decodeContent converts raw file bytes to text. Content that is not valid
// UTF-8 is decoded as Latin-1, the encoding of legacy part library files.
func decodeContent(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding model file content: %w", err)
	}
	return string(decoded), nil
}
