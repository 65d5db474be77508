package handler

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/dreschagin/k8s-orchestration-demo/pkg/logger"
)

// StaticHandler serves files from fsys under a URL prefix.
//
// Only valid fs paths are opened (no "..", no leading slash), directories are
// never listed, and when fsys comes from os.Root symlinks cannot escape it.
type StaticHandler struct {
	fsys   fs.FS
	prefix string
	logger *logger.Logger
}

func NewStaticHandler(fsys fs.FS, prefix string, logger *logger.Logger) *StaticHandler {
	return &StaticHandler{
		fsys:   fsys,
		prefix: prefix,
		logger: logger,
	}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutPrefix(r.URL.Path, h.prefix)
	if !ok || !fs.ValidPath(name) || name == "." {
		http.NotFound(w, r)
		return
	}

	f, err := h.fsys.Open(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			h.logger.Warn("Static asset rejected", "path", name, "error", err.Error())
		}
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	content, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			h.logger.Error("Failed to read static asset", err, "path", name)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		content = bytes.NewReader(data)
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), content)
}
