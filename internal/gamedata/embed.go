// Package gamedata provides embedded game data and utilities for loading it.
package gamedata

import "embed"

// dataFS embeds the world image and every data file in this directory at
// build time.
//
//go:embed *.json *.yaml *.png
var dataFS embed.FS
