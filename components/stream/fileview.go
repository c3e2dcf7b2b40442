package stream

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FSFileView answers existence checks against an fs.FS whose root holds the
// per-user directories ("alice/files/...").
type FSFileView struct {
	FS fs.FS
}

// NewFSFileView wraps fsys.
func NewFSFileView(fsys fs.FS) *FSFileView {
	return &FSFileView{FS: fsys}
}

// Exists reports whether root+p exists.
func (v *FSFileView) Exists(root, p string) bool {
	_, ok := v.stat(root, p)
	return ok
}

// IsDir reports whether root+p is a directory.
func (v *FSFileView) IsDir(root, p string) bool {
	info, ok := v.stat(root, p)
	return ok && info.IsDir()
}

func (v *FSFileView) stat(root, p string) (fs.FileInfo, bool) {
	if v == nil || v.FS == nil {
		return nil, false
	}
	name := scopedName(root, p)
	info, err := fs.Stat(v.FS, name)
	if err != nil {
		return nil, false
	}
	return info, true
}

// OSFileView answers existence checks below a data directory on disk.
type OSFileView struct {
	DataDir string
}

// NewOSFileView roots the view at dataDir.
func NewOSFileView(dataDir string) *OSFileView {
	return &OSFileView{DataDir: dataDir}
}

// Exists reports whether the file exists on disk.
func (v *OSFileView) Exists(root, p string) bool {
	_, err := os.Stat(v.resolve(root, p))
	return err == nil
}

// IsDir reports whether the path is a directory on disk.
func (v *OSFileView) IsDir(root, p string) bool {
	info, err := os.Stat(v.resolve(root, p))
	return err == nil && info.IsDir()
}

func (v *OSFileView) resolve(root, p string) string {
	return filepath.Join(v.DataDir, filepath.FromSlash(scopedName(root, p)))
}

// scopedName joins root and p into an unrooted slash path that can never
// climb out of root.
func scopedName(root, p string) string {
	name := path.Join(normalizePath(root), normalizePath(p))
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "."
	}
	return name
}
