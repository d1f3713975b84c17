// Package web embeds the faucet's static frontend.
package web

import (
	"embed"
	"io/fs"
)

//go:embed public/*
var content embed.FS

// Public returns the frontend filesystem rooted at public/.
func Public() fs.FS {
	sub, err := fs.Sub(content, "public")
	if err != nil {
		panic(err)
	}
	return sub
}
