package cmd

import (
	"os"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/ardnew/mung"
)

// PathEnv names the environment variable listing directories searched for
// document files.
const PathEnv = "MEOW_PATH"

// stdinSource is the file name that selects standard input.
const stdinSource = "-"

// docExt is tried after the bare file name when searching.
var docExt = []string{".yaml", ".yml"}

// SearchPath returns the directories searched for document files: dirs in
// order, followed by those listed in [PathEnv]. Entries that are not
// existing directories are dropped.
func SearchPath(dirs ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(PathEnv)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	return slices.DeleteFunc(filepath.SplitList(list), func(s string) bool {
		return s == "" || !isDir(s)
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// findDocument resolves name to a document file. A name that exists
// relative to the working directory, or is absolute, is used as is.
// Otherwise each directory of path is tried in order, first with the bare
// name and then with each of docExt appended.
func findDocument(name string, path []string) (string, bool) {
	candidates := func(base string) []string {
		out := []string{base}
		if filepath.Ext(base) == "" {
			for _, ext := range docExt {
				out = append(out, base+ext)
			}
		}

		return out
	}

	for _, c := range candidates(name) {
		if isFile(c) {
			return c, true
		}
	}

	if filepath.IsAbs(name) {
		return "", false
	}

	for _, dir := range path {
		for _, c := range candidates(filepath.Join(dir, name)) {
			if isFile(c) {
				return c, true
			}
		}
	}

	return "", false
}

// fileKey identifies a file by device and inode, so the same document named
// twice, through a symlink or a different relative path, loads once.
type fileKey struct {
	dev uint64
	ino uint64
}

func makeFileKey(path string) (fileKey, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
