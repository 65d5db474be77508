// Package web holds the landing page template and static assets.
package web

import (
	"embed"
	"io/fs"
)

// files keeps a copy of the assets in the binary so the image can run without
// a mounted volume.
//
//go:embed static templates
var files embed.FS

// StaticFS returns the embedded static assets rooted at static/.
func StaticFS() fs.FS {
	return mustSub("static")
}

// TemplatesFS returns the embedded templates rooted at templates/.
func TemplatesFS() fs.FS {
	return mustSub("templates")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(files, dir)
	if err != nil {
		panic("failed to initialize embedded " + dir + ": " + err.Error())
	}
	return sub
}
