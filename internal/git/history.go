package git

import (
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/folio/internal/foundation/errors"
)

// History answers last-modified queries for files below a content directory.
// It is safe for concurrent use.
type History struct {
	mu     sync.Mutex
	repo   *git.Repository
	prefix string // content dir relative to the worktree root, slash-separated
	cache  map[string]time.Time
}

// Open locates the repository containing contentDir, searching parent
// directories for .git.
func Open(contentDir string) (*History, error) {
	abs, err := filepath.Abs(contentDir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "failed to resolve content directory").
			WithContext("path", contentDir).
			Build()
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "content directory is not inside a git repository").
			WithContext("path", contentDir).
			Build()
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "repository has no worktree").
			WithContext("path", contentDir).
			Build()
	}

	root, err := filepath.EvalSymlinks(wt.Filesystem.Root())
	if err != nil {
		root = wt.Filesystem.Root()
	}
	if resolved, evalErr := filepath.EvalSymlinks(abs); evalErr == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, errors.GitError("content directory is outside the repository worktree").
			WithContext("path", contentDir).
			WithContext("worktree", root).
			Build()
	}
	prefix := filepath.ToSlash(rel)
	if prefix == "." {
		prefix = ""
	}

	return &History{repo: repo, prefix: prefix, cache: map[string]time.Time{}}, nil
}

// LastModified returns the committer time of the newest commit touching
// contentPath (slash-separated, relative to the content directory). Files that
// were never committed report false.
func (h *History) LastModified(contentPath string) (time.Time, bool) {
	repoPath := path.Join(h.prefix, contentPath)

	h.mu.Lock()
	defer h.mu.Unlock()

	if t, ok := h.cache[repoPath]; ok {
		return t, !t.IsZero()
	}

	var when time.Time
	iter, err := h.repo.Log(&git.LogOptions{FileName: &repoPath, Order: git.LogOrderCommitterTime})
	if err == nil {
		if c, nextErr := iter.Next(); nextErr == nil {
			when = c.Committer.When
		}
		iter.Close()
	}
	h.cache[repoPath] = when
	return when, !when.IsZero()
}

// Head returns the HEAD commit hash, or "" for an empty repository.
func (h *History) Head() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	ref, err := h.repo.Head()
	if err != nil {
		return ""
	}
	return ref.Hash().String()
}

// HeadCommit returns the HEAD commit object.
func (h *History) HeadCommit() (*object.Commit, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ref, err := h.repo.Head()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "failed to resolve HEAD").Build()
	}
	return h.repo.CommitObject(ref.Hash())
}
