package projectpath

import (
	"errors"
	"path/filepath"
	"strings"
)

// Resolver maps logical input references to concrete filesystem paths
// under one project root, and back to the relative form embedded in
// emitted commands.
type Resolver struct {
	root string
}

// NewResolver constructs a Resolver for the given project root. The root
// must be an absolute path.
func NewResolver(root string) (*Resolver, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("project root required")
	}
	if !filepath.IsAbs(root) {
		return nil, errors.New("project root must be absolute")
	}
	return &Resolver{root: filepath.Clean(root)}, nil
}

// Root returns the project root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve maps a reference to an absolute path. Absolute references are
// cleaned and returned as-is; everything else is taken relative to the
// project root.
func (r *Resolver) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Join(r.root, ref)
}

// Relativize maps an absolute path back to its project-relative form.
// Paths outside the project root, and paths that cannot be related, are
// returned unchanged so commands stay runnable.
func (r *Resolver) Relativize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(r.root, filepath.Clean(path))
	if err != nil {
		return path
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
