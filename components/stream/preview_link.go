package stream

import (
	"path"
	"strings"
)

// RootDir is the file browser's root listing marker.
const RootDir = "/"

// BrowseTarget derives the folder listing that shows the given path. Folders
// open themselves; files open their parent scrolled to the file name. The
// root itself has no scroll target.
func BrowseTarget(filePath string, isDir bool) BrowseParams {
	clean := normalizePath(filePath)
	if isDir || clean == RootDir {
		return BrowseParams{Dir: clean}
	}
	return BrowseParams{
		Dir:      parentDir(clean),
		ScrollTo: path.Base(clean),
	}
}

// PreviewLink builds the file browser URL for the given path.
func PreviewLink(urls URLBuilder, filePath string, isDir bool) string {
	if urls == nil {
		return ""
	}
	return urls.FileBrowserURL(BrowseTarget(filePath, isDir))
}

// parentDir expects a cleaned, rooted path. Top-level entries such as
// "/report.pdf" resolve to RootDir.
func parentDir(p string) string {
	if strings.Count(p, "/") <= 1 {
		return RootDir
	}
	return path.Dir(p)
}

// normalizePath roots and cleans activity paths so "docs/a.txt", "/docs/a.txt"
// and "/docs//a.txt" all address the same entry.
func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return RootDir
	}
	return path.Clean("/" + p)
}

// userRoot returns the per-user file root consulted by FileView.
func userRoot(user string) string {
	return "/" + strings.Trim(user, "/") + "/files"
}
