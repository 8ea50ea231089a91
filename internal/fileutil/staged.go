// Package fileutil provides atomic file write helpers.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StagedFile is an output file staged as a temporary sibling of its final
// destination. Content is written to File, then Commit renames it into
// place; Discard removes it if anything failed in between, so a partial
// output never survives under the destination name.
type StagedFile struct {
	// SrcInfo is the stat of the source file the output derives from.
	SrcInfo os.FileInfo

	// IsExec reports whether any execute bit is set on the source.
	IsExec bool

	// File is the open temporary file.
	File *os.File

	path      string
	committed bool
}

// Stage stats src and creates a temporary file in dst's directory.
// Caller must defer Discard.
func Stage(src, dst string) (*StagedFile, error) {
	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", src, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	const executableBits = 0o111

	return &StagedFile{
		SrcInfo: info,
		IsExec:  info.Mode()&executableBits != 0,
		File:    tmp,
		path:    tmp.Name(),
	}, nil
}

// Commit sets perm on the temporary file, closes it, and renames it to dst.
func (s *StagedFile) Commit(dst string, perm os.FileMode) error {
	if err := os.Chmod(s.path, perm); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := s.File.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(s.path, dst); err != nil {
		return fmt.Errorf("renaming output file: %w", err)
	}

	s.committed = true

	return nil
}

// Discard closes the temporary file and removes it unless it was committed.
// Intended as `defer staged.Discard(&err)`.
func (s *StagedFile) Discard(errp *error) {
	s.File.Close() //nolint:gosec // best-effort cleanup

	if !s.committed && *errp != nil {
		os.Remove(s.path) //nolint:gosec // best-effort cleanup
	}
}

// Finalize optionally copies modTime onto dst and returns its size.
func Finalize(dst string, preserveTimestamps bool, modTime time.Time) (int64, error) {
	if preserveTimestamps {
		if err := os.Chtimes(dst, modTime, modTime); err != nil {
			return 0, fmt.Errorf("preserving timestamps: %w", err)
		}
	}

	info, err := os.Stat(dst)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", dst, err)
	}

	return info.Size(), nil
}
