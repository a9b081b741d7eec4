package site

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/folio/internal/foundation/errors"
)

// Store is the content store: a directory tree on an afero.Fs.
type Store struct {
	fs   afero.Fs
	root string
}

// NewStore returns a store rooted at root on fs.
func NewStore(fs afero.Fs, root string) *Store {
	return &Store{fs: fs, root: root}
}

// Root returns the content directory.
func (s *Store) Root() string { return s.root }

// Inventory lists the files of a store, slash-separated and relative to the
// root, in lexical order.
type Inventory struct {
	Documents []string
	Assets    []string
}

// IsMarkdown reports whether name is a content document.
func IsMarkdown(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Scan walks the store. Hidden files and directories are skipped.
func (s *Store) Scan() (*Inventory, error) {
	info, err := s.fs.Stat(s.root)
	if err != nil || !info.IsDir() {
		return nil, errors.NewError(errors.CategoryNotFound, "content directory not found").
			WithContext("path", s.root).
			UserAction().
			Build()
	}

	inv := &Inventory{}
	err = afero.Walk(s.fs, s.root, func(p string, fi fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p != s.root && strings.HasPrefix(fi.Name(), ".") {
			if fi.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if fi.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if IsMarkdown(rel) {
			inv.Documents = append(inv.Documents, rel)
		} else {
			inv.Assets = append(inv.Assets, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to scan content directory").
			WithContext("path", s.root).
			Build()
	}

	sort.Strings(inv.Documents)
	sort.Strings(inv.Assets)
	return inv, nil
}

// Read returns the bytes of the file at rel.
func (s *Store) Read(rel string) ([]byte, error) {
	return afero.ReadFile(s.fs, filepath.Join(s.root, filepath.FromSlash(rel)))
}
