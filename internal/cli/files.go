package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"bennypowers.dev/embedcss/internal/collections"
	"bennypowers.dev/embedcss/internal/config"
	"bennypowers.dev/embedcss/internal/log"
)

// collectFiles resolves command line paths. Directories are searched with
// the include patterns, other arguments are files or doublestar patterns.
// Exclude patterns apply to everything found by searching.
func collectFiles(args []string, cfg *config.Config) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var files []string
	seen := collections.NewSet[string]()
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen.Has(path) {
			seen.Add(path)
			files = append(files, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			matches, err := searchDir(arg, cfg)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				add(m)
			}

		case err == nil:
			add(arg)

		case errors.Is(err, fs.ErrNotExist) && hasMeta(arg):
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match %q", arg)
			}
			for _, m := range matches {
				if !excluded(filepath.ToSlash(m), cfg.Exclude) {
					add(m)
				}
			}

		default:
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
	}
	return files, nil
}

func searchDir(dir string, cfg *config.Config) ([]string, error) {
	fsys := os.DirFS(dir)
	var matches []string
	for _, pattern := range cfg.Include {
		found, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad include pattern %q: %w", pattern, err)
		}
		for _, rel := range found {
			if excluded(rel, cfg.Exclude) {
				log.Debug("Excluding %s", rel)
				continue
			}
			matches = append(matches, filepath.Join(dir, filepath.FromSlash(rel)))
		}
	}
	slices.Sort(matches)
	return matches, nil
}

func excluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		// doublestar.Match expects forward slashes
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

func hasMeta(s string) bool {
	for _, c := range s {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
