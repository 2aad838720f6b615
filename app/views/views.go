// Package views holds the HTML templates compiled into the binary.
package views

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var files embed.FS

// FS returns the template files rooted at the templates directory.
func FS() fs.FS {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
