// Package colors provides the color table collaborator: a read-only mapping
// from integer color IDs to material descriptors.
//
// The parser queries the table to validate per-line color IDs; a miss is a
// recoverable warning and the default (black, ID 0) is substituted. The two
// sentinel IDs 16 (main color) and 24 (edge color) are present in every
// table, including the built-in default.
//
// Tables can be loaded from a YAML material file:
//
//	f, _ := os.Open("materials.yaml")
//	table, err := colors.LoadYAML(f)
package colors
