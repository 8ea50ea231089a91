// Package filter expands positional arguments into the list of files to
// process, applying include/exclude globs with find -path semantics.
package filter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ninja-atmos/pixlock/pkg/globpat"
)

// ImagePatterns returns the default include patterns used when encrypting a
// directory without explicit includes: the common image extensions.
func ImagePatterns() []string {
	return []string{
		"*.jpg", "*.jpeg", "*.jfif",
		"*.png",
		"*.bmp",
		"*.gif",
		"*.tiff",
		"*.webp",
		"*.ico",
	}
}

// Filter decides which walked paths to keep. No include patterns means
// keep everything; excludes always win.
type Filter struct {
	includes *globpat.Set
	excludes *globpat.Set
}

// New compiles include/exclude patterns into a reusable filter.
func New(includes, excludes []string) (*Filter, error) {
	inc, err := compile(includes)
	if err != nil {
		return nil, fmt.Errorf("compiling include patterns: %w", err)
	}

	exc, err := compile(excludes)
	if err != nil {
		return nil, fmt.Errorf("compiling exclude patterns: %w", err)
	}

	return &Filter{includes: inc, excludes: exc}, nil
}

// Keep reports whether a walked path passes the filter.
func (f *Filter) Keep(path string) bool {
	if f.excludes.Match(path) {
		return false
	}

	return f.includes.Len() == 0 || f.includes.Match(path)
}

// compile strips leading "./" so patterns line up with cleaned paths, then
// builds the glob set.
func compile(patterns []string) (*globpat.Set, error) {
	trimmed := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		trimmed = append(trimmed, strings.TrimPrefix(pattern, "./"))
	}

	return globpat.Compile(trimmed)
}

// Resolve expands args into the final worklist. Explicitly named files pass
// through without filtering, so any binary file can be processed directly;
// directories are walked recursively and filtered. Returns the deduplicated
// files and the total number of candidates seen.
func Resolve(args, includes, excludes []string) (files []string, scanned int, err error) {
	flt, err := New(includes, excludes)
	if err != nil {
		return nil, 0, err
	}

	var kept []string

	for _, arg := range args {
		arg = filepath.Clean(arg)

		info, err := os.Stat(arg)
		if err != nil {
			return nil, 0, fmt.Errorf("stat %q: %w", arg, err)
		}

		if !info.IsDir() {
			scanned++
			kept = append(kept, arg)

			continue
		}

		walkErr := filepath.WalkDir(arg, func(path string, entry fs.DirEntry, err error) error {
			switch {
			case err != nil:
				return err
			case entry.IsDir():
				return nil
			}

			scanned++

			// Patterns always see forward slashes.
			if flt.Keep(filepath.ToSlash(path)) {
				kept = append(kept, path)
			}

			return nil
		})
		if walkErr != nil {
			return nil, 0, fmt.Errorf("walking %q: %w", arg, walkErr)
		}
	}

	files = dedupe(kept)

	if len(files) == 0 {
		return nil, scanned, fmt.Errorf("no files matched the provided patterns: %v", args)
	}

	return files, scanned, nil
}

// dedupe drops repeated paths while preserving first-seen order.
func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))

	for _, path := range paths {
		if _, ok := seen[path]; ok {
			continue
		}

		seen[path] = struct{}{}
		out = append(out, path)
	}

	return out
}
