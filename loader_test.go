package brickmesh

import (
	"fmt"
	"strings"
	"testing"
)

// mapProvider serves file content synchronously from memory.
type mapProvider map[string]string

func (m mapProvider) Fetch(id string, deliver func(content []byte, err error)) {
	content, ok := m[id]
	if !ok {
		deliver(nil, fmt.Errorf("no such file"))
		return
	}
	deliver([]byte(content), nil)
}

// TestLoaderChasesReferences tests that referenced part files are fetched
func TestLoaderChasesReferences(t *testing.T) {
	provider := mapProvider{
		"car.ldr":   "1 16 0 0 0 1 0 0 0 1 0 0 0 1 body.ldr\n",
		"body.ldr":  "1 4 0 0 0 1 0 0 0 1 0 0 0 1 brick.dat\n",
		"brick.dat": "3 16 0 0 0 1 0 0 1 1 0\n",
	}
	l := NewLoader(provider)

	var fired int
	l.OnLoaded(func() { fired++ })
	l.Load("car.ldr")

	if l.Outstanding() != 0 {
		t.Fatalf("expected 0 outstanding, got %d", l.Outstanding())
	}
	if fired == 0 {
		t.Error("expected the all-loaded callback to fire")
	}
	if len(l.Warnings()) != 0 {
		t.Errorf("unexpected warnings:\n%s", FormatWarnings(l.Warnings()))
	}
	for _, id := range []string{"car.ldr", "body.ldr", "brick.dat"} {
		if !l.Registry().Contains(id) {
			t.Errorf("expected %s in registry", id)
		}
	}
	if missing := l.Registry().MissingReferences(); len(missing) != 0 {
		t.Errorf("expected no missing references, got %v", missing)
	}
}

// TestLoaderDuplicateRequest tests that a repeat request still reports
// progress
func TestLoaderDuplicateRequest(t *testing.T) {
	provider := mapProvider{"brick.dat": "3 16 0 0 0 1 0 0 1 1 0\n"}
	l := NewLoader(provider)

	var fired int
	l.OnLoaded(func() { fired++ })

	l.Load("brick.dat")
	before := fired
	l.Load("brick.dat")
	if fired != before+1 {
		t.Errorf("expected the repeat request to fire the callback once more, got %d then %d", before, fired)
	}
}

// TestLoaderLevelTriggered tests that completion can be reported repeatedly
// across load waves
func TestLoaderLevelTriggered(t *testing.T) {
	provider := mapProvider{
		"a.dat": "3 16 0 0 0 1 0 0 1 1 0\n",
		"b.dat": "3 16 0 0 0 1 0 0 1 1 0\n",
	}
	l := NewLoader(provider)

	var fired int
	l.OnLoaded(func() { fired++ })

	l.Load("a.dat")
	l.Load("b.dat")
	if fired < 2 {
		t.Errorf("expected at least 2 completion reports, got %d", fired)
	}
}

// TestLoaderFetchError tests that a failed fetch becomes an error warning
func TestLoaderFetchError(t *testing.T) {
	l := NewLoader(mapProvider{})
	l.Load("ghost.dat")

	if l.Outstanding() != 0 {
		t.Fatalf("expected 0 outstanding after failure, got %d", l.Outstanding())
	}
	warnings := l.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if !warnings[0].Error || warnings[0].PartID != "ghost.dat" {
		t.Errorf("unexpected warning %+v", warnings[0])
	}
}

// TestLoaderNormalizesIdentifiers tests that request identifiers are matched
// case-insensitively with forward slashes
func TestLoaderNormalizesIdentifiers(t *testing.T) {
	var fetched []string
	provider := ProviderFunc(func(id string, deliver func([]byte, error)) {
		fetched = append(fetched, id)
		deliver([]byte("3 16 0 0 0 1 0 0 1 1 0\n"), nil)
	})
	l := NewLoader(provider)

	l.Load("S\\Brick.DAT")
	l.Load("s/brick.dat")
	if len(fetched) != 1 {
		t.Fatalf("expected 1 fetch, got %d: %v", len(fetched), fetched)
	}
	if fetched[0] != "s/brick.dat" {
		t.Errorf("expected normalized identifier, got %q", fetched[0])
	}
}

// TestLoaderModel tests flattening the registry built by a loader
func TestLoaderModel(t *testing.T) {
	provider := mapProvider{
		"car.ldr":   "1 16 0 0 0 1 0 0 0 1 0 0 0 1 brick.dat\n",
		"brick.dat": "3 16 0 0 0 1 0 0 1 1 0\n",
	}
	l := NewLoader(provider)
	l.Load("car.ldr")

	mesh, err := l.Model().Mesh(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mesh.Triangles[4]) != 3 {
		t.Errorf("expected 3 triangle indices, got %d", len(mesh.Triangles[4]))
	}
}

// TestDecodeContent tests the fallback decoding of legacy part files
func TestDecodeContent(t *testing.T) {
	utf8Text, err := decodeContent([]byte("0 Plain comment\n"))
	if err != nil || utf8Text != "0 Plain comment\n" {
		t.Errorf("expected UTF-8 passthrough, got %q, %v", utf8Text, err)
	}

	// 0xE9 is Latin-1 e-acute and invalid as a standalone UTF-8 byte.
	latin, err := decodeContent([]byte{'0', ' ', 0xE9, '\n'})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(latin, "é") {
		t.Errorf("expected decoded e-acute, got %q", latin)
	}
}
