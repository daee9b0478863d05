// Package presets embeds a small bundled preset catalog for compile-time
// inclusion: a base presets.json plus localization overlays. It is the data
// source used when neither a data directory nor an asset store is configured.
//
// Usage:
//
//	collection.Load(ctx, dirfs.New(presets.FS, presets.Dir))
package presets

import "embed"

// Dir is the directory inside FS holding the documents.
const Dir = "data"

//go:embed data/*.json
var FS embed.FS
