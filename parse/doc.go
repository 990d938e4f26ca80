// Package parse provides the line-oriented parser for brick model files.
//
// Input is the complete text of one file. Lines are tokenized on whitespace
// and dispatched on their leading line type (0-5) into strongly-typed
// records before any semantic processing, so no downstream code re-parses
// token strings.
//
// The parser maintains three pieces of per-file state across lines: the
// winding convention (initially counter-clockwise), a one-shot invert-next
// flag consumed by the next geometry line, and a local-cull flag (initially
// on). These live in an explicit state struct threaded through every
// line-processing call.
//
// Parse-time issues never abort parsing; they are reported as structured
// Warnings alongside the result. An unknown color ID is substituted with the
// default color, an unrecognized meta command is skipped, and a "moved to"
// pragma records a replacement identifier on the part type.
package parse
