// Package bake deduplicates and indexes emitted vertex coordinates.
//
// A sink accumulates Points, each tagged with the index-buffer slot it must
// patch, then calls Bake once per sub-assembly. Baking sorts the points
// lexicographically by coordinate and assigns each distinct coordinate
// triple one index; duplicate detection is exact (bit-identical), not
// tolerance-based. The output vertex count never exceeds the input point
// count, and every recorded slot is patched, so no Unresolved sentinel
// survives a bake.
package bake
