package scan

import (
	"os"
	"path/filepath"
	"strings"
)

type FileInfo struct {
	Path    string
	RelPath string
	Mtime   int64
	Size    int64
}

// ScanArchive walks an archive tree and returns every per-session
// document, i.e. .md files below the root. The root-level index.md and
// dotfiles (the exported-state db, temp files) are not documents.
func ScanArchive(root string) ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		base := filepath.Base(path)
		if info.IsDir() {
			if path != root && strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" || strings.HasPrefix(base, ".") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if rel == "index.md" {
			return nil
		}
		files = append(files, FileInfo{
			Path:    path,
			RelPath: rel,
			Mtime:   info.ModTime().Unix(),
			Size:    info.Size(),
		})
		return nil
	})
	return files, err
}
