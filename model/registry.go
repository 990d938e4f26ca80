package model

import "strings"

// ModelExtensions lists the file extensions that mark an identifier as a
// top-level model file rather than a leaf part.
var ModelExtensions = []string{".ldr", ".mpd"}

// NormalizeID lowercases an identifier and converts backslashes to forward
// slashes. Identifiers are case-insensitive in the source format.
func NormalizeID(id string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(id), "\\", "/"))
}

// IsModelID reports whether a normalized identifier denotes a top-level
// model file. References to model files are deferred during parsing.
func IsModelID(id string) bool {
	for _, ext := range ModelExtensions {
		if strings.HasSuffix(id, ext) {
			return true
		}
	}
	return false
}

// Registry owns the mapping from normalized identifier to part type.
type Registry struct {
	parts       map[string]*PartType
	mainModelID string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{parts: make(map[string]*PartType)}
}

// Add registers a part type under its identifier. An existing entry with the
// same identifier is kept; part types are created once per unique identifier.
func (r *Registry) Add(p *PartType) {
	if _, ok := r.parts[p.ID]; ok {
		return
	}
	r.parts[p.ID] = p
}

// Get returns the part type registered under the normalized identifier.
func (r *Registry) Get(id string) (*PartType, bool) {
	p, ok := r.parts[id]
	return p, ok
}

// Contains reports whether an identifier is registered.
func (r *Registry) Contains(id string) bool {
	_, ok := r.parts[id]
	return ok
}

// MainModelID returns the identifier of the main model, the first FILE
// declaration seen during parsing.
func (r *Registry) MainModelID() string {
	return r.mainModelID
}

// SetMainModelID records the main model identifier.
func (r *Registry) SetMainModelID(id string) {
	r.mainModelID = id
}

// IDs returns all registered identifiers in unspecified order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.parts))
	for id := range r.parts {
		ids = append(ids, id)
	}
	return ids
}

// MissingReferences returns the identifiers referenced by registered part
// types (including replacement targets) that are not themselves registered.
// The loader uses this to decide which files still need to be fetched.
func (r *Registry) MissingReferences() []string {
	seen := make(map[string]bool)
	var missing []string
	note := func(id string) {
		if id == "" || seen[id] || r.Contains(id) {
			return
		}
		seen[id] = true
		missing = append(missing, id)
	}
	for _, p := range r.parts {
		note(p.ReplacementID)
		for _, s := range p.Steps {
			for _, g := range s.Deferred {
				note(g.ID)
			}
			for _, pl := range s.Immediate {
				note(pl.ID)
			}
		}
	}
	return missing
}
