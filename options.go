package brickmesh

import (
	"github.com/tsawler/brickmesh/colors"
	"github.com/tsawler/brickmesh/flatten"
)

// LoadOptions holds configuration shared by the Builder and the Loader.
type LoadOptions struct {
	table    colors.Table
	maxDepth int
}

// defaultOptions returns the default load options.
func defaultOptions() LoadOptions {
	return LoadOptions{
		table:    colors.Default(),
		maxDepth: flatten.DefaultMaxDepth,
	}
}

// clone creates a copy of LoadOptions.
func (o LoadOptions) clone() LoadOptions {
	return LoadOptions{
		table:    o.table,
		maxDepth: o.maxDepth,
	}
}
