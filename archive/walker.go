// Package archive walks page descriptions packed into zip archives.
package archive

import (
	"archive/zip"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk, fsys gives access to the whole archive so files referenced by the
// visited one could be read. If an error is returned, processing stops.
type WalkFunc func(archive string, fsys fs.FS, file *zip.File) error

// Walk walks all files in the archive for which match returns true (all
// files when match is nil) in natural order of their names, calling walkFn
// for each. Archives with entries having path traversal components ("..")
// or absolute paths are rejected.
func Walk(archive string, match func(name string) bool, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	var (
		names []string
		files = make(map[string]*zip.File, len(r.File))
	)
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || (match != nil && !match(name)) {
			continue
		}
		if _, ok := files[name]; !ok {
			names = append(names, name)
		}
		files[name] = f
	}
	sort.Sort(natural.StringSlice(names))

	for _, name := range names {
		if err := walkFn(archive, &r.Reader, files[name]); err != nil {
			return err
		}
	}
	return nil
}

// isSafePath returns false for paths that could escape the archive root:
// absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
