package colors

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/brickmesh/geom"
)

// DefaultID is the color substituted when a line references an ID absent
// from the table.
const DefaultID = 0

// Material describes the appearance of one color ID.
type Material struct {
	Name      string `yaml:"name"`
	Value     string `yaml:"value"`           // surface color, #RRGGBB
	Edge      string `yaml:"edge"`            // edge color, #RRGGBB
	Alpha     int    `yaml:"alpha,omitempty"` // 0 (opaque) to 255
	Luminance int    `yaml:"luminance,omitempty"`
}

// Table maps integer color IDs to material descriptors. Implementations are
// queried read-only.
type Table interface {
	Get(id int) (Material, bool)
}

// MapTable is a Table backed by a plain map.
type MapTable map[int]Material

// Get returns the material for id.
func (t MapTable) Get(id int) (Material, bool) {
	m, ok := t[id]
	return m, ok
}

// Default returns a built-in table covering the core colors plus the two
// sentinel IDs. It is intentionally small; real applications load a full
// material file with LoadYAML.
func Default() Table {
	return MapTable{
		0:  {Name: "Black", Value: "#05131D", Edge: "#595959"},
		1:  {Name: "Blue", Value: "#0055BF", Edge: "#333333"},
		2:  {Name: "Green", Value: "#237841", Edge: "#333333"},
		4:  {Name: "Red", Value: "#C91A09", Edge: "#333333"},
		7:  {Name: "Light Gray", Value: "#9BA19D", Edge: "#333333"},
		14: {Name: "Yellow", Value: "#F2CD37", Edge: "#333333"},
		15: {Name: "White", Value: "#FFFFFF", Edge: "#333333"},

		geom.MainColorID: {Name: "Main Color", Value: "#7F7F7F", Edge: "#333333"},
		geom.EdgeColorID: {Name: "Edge Color", Value: "#7F7F7F", Edge: "#333333"},
	}
}

// yamlFile is the on-disk shape of a material file: a mapping from color ID
// to material.
type yamlFile struct {
	Colors map[int]Material `yaml:"colors"`
}

// LoadYAML reads a material table from YAML. The sentinel IDs 16 and 24 are
// filled in from the default table when the file omits them, so a loaded
// table always accepts sentinel-colored geometry.
func LoadYAML(r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading material file: %w", err)
	}
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing material file: %w", err)
	}
	if len(f.Colors) == 0 {
		return nil, fmt.Errorf("material file defines no colors")
	}
	t := MapTable(f.Colors)
	def := Default()
	for _, id := range []int{geom.MainColorID, geom.EdgeColorID} {
		if _, ok := t[id]; !ok {
			m, _ := def.Get(id)
			t[id] = m
		}
	}
	return t, nil
}
