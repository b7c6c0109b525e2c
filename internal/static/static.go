// Package static embeds the stylesheet and scripts served under /static.
package static

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var StaticFS embed.FS

// FS returns the assets rooted at the static directory.
func FS() fs.FS {
	sub, err := fs.Sub(StaticFS, "static")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}
	return sub
}
