package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .aoi/ project directory.
// All fields are precomputed at construction.
type Paths struct {
	Project string // project root (parent of .aoi/)
	Root    string // .aoi/
	DB      string // .aoi/aoi.db
	Config  string // .aoi/config.yaml

	ExportDir string // .aoi/export/
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ".aoi")
	return &Paths{
		Project: projectRoot,
		Root:    root,
		DB:      filepath.Join(root, "aoi.db"),
		Config:  filepath.Join(root, "config.yaml"),

		ExportDir: filepath.Join(root, "export"),
	}
}

// EnsureDirs creates all subdirectories under .aoi/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.ExportDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// Resolve makes a project-relative path absolute. Absolute paths and "" pass through.
func (p *Paths) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Project, path)
}
