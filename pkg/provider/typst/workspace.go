package typst

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
)

const (
	sourceName = "main.typ"
	outputDir  = "out"

	pagePattern = "page-{0p}.png"
	pageGlob    = "page-*.png"
)

// workspace is the request-local directory holding the source and
// attachments of exactly one compilation. Pages are written to a separate
// output directory so attachments never pass for compiled pages.
type workspace struct {
	dir string
}

func newWorkspace(root string) (*workspace, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(root, "typst-*")

	if err != nil {
		return nil, err
	}

	if err := os.Mkdir(filepath.Join(dir, outputDir), 0700); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	return &workspace{
		dir: dir,
	}, nil
}

func (w *workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

func (w *workspace) WriteFile(name string, data []byte) (string, error) {
	name = filepath.Base(filepath.Clean("/" + name))

	if name == "" || name == "." || name == "/" || name == sourceName || name == outputDir {
		return "", errors.New("invalid file name")
	}

	path := w.Path(name)

	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", err
	}

	return path, nil
}

func (w *workspace) WriteSource(source string) (string, error) {
	path := w.Path(sourceName)

	if err := os.WriteFile(path, []byte(source), 0600); err != nil {
		return "", err
	}

	return path, nil
}

// PagePath is the output template handed to the compiler.
func (w *workspace) PagePath() string {
	return filepath.Join(w.dir, outputDir, pagePattern)
}

func (w *workspace) Pages() ([]string, error) {
	pages, err := filepath.Glob(filepath.Join(w.dir, outputDir, pageGlob))

	if err != nil {
		return nil, err
	}

	sort.Strings(pages)

	return pages, nil
}

func (w *workspace) Close() error {
	return os.RemoveAll(w.dir)
}
