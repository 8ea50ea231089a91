// Package logic implements the core orchestration for encryption and
// decryption runs: key loading, file resolution, and batch processing.
package logic

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ninja-atmos/pixlock/internal/config"
	"github.com/ninja-atmos/pixlock/internal/encryption"
	"github.com/ninja-atmos/pixlock/internal/filter"
	"github.com/ninja-atmos/pixlock/internal/keystore"
	"github.com/ninja-atmos/pixlock/internal/logger"
)

// Run is the main logic of the application.
func Run(cfg *config.Config) error {
	log := logger.New(cfg.Quiet)

	scanned, excluded, start, done, err := preamble(cfg)
	if done || err != nil {
		return err
	}

	key, err := keystore.LoadOrCreate(cfg.KeyFile)
	if err != nil {
		return fmt.Errorf("loading key: %w", err)
	}

	proc, err := encryption.NewProcessor(cfg, key, log)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	processed, errored, totalSize, err := proc.ProcessFiles()

	if cfg.Stats {
		printStats(scanned, excluded, processed, errored, totalSize, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("running logic: %w", err)
	}

	return nil
}

// preamble resolves files and handles dry run. Returns done=true if dry run was executed.
func preamble(cfg *config.Config) (int, int, time.Time, bool, error) {
	start := time.Now()

	scanned, err := resolveFiles(cfg)
	if err != nil {
		return 0, 0, start, false, fmt.Errorf("resolving files: %w", err)
	}

	excluded := scanned - len(cfg.Files)

	if cfg.Dry {
		return scanned, excluded, start, true, dryRun(cfg, scanned, excluded, start)
	}

	return scanned, excluded, start, false, nil
}

// resolveFiles normalizes positional args, walks directories, and applies
// include/exclude filtering. When walking without explicit includes,
// encryption defaults to the image extensions the tool targets and
// decryption to "*<encrypt-ext>"; explicitly named files always pass
// through untouched, so any binary file can be processed directly.
func resolveFiles(cfg *config.Config) (int, error) {
	includes, err := filter.Load(cfg.Include, cfg.IncludeFrom)
	if err != nil {
		return 0, fmt.Errorf("loading include patterns: %w", err)
	}

	excludes, err := filter.Load(cfg.Exclude, cfg.ExcludeFrom)
	if err != nil {
		return 0, fmt.Errorf("loading exclude patterns: %w", err)
	}

	if len(includes) == 0 {
		if cfg.Decrypt {
			includes = append(includes, "*"+cfg.EncryptSuffix)
		} else {
			includes = append(includes, filter.ImagePatterns()...)
		}
	}

	if !cfg.Decrypt {
		// Never pick up already-encrypted files while walking.
		excludes = append(excludes, "*"+cfg.EncryptSuffix)
	}

	files, scanned, err := filter.Resolve(cfg.Files, includes, excludes)
	if err != nil {
		return scanned, fmt.Errorf("filtering files: %w", err)
	}

	cfg.Files = files

	return scanned, nil
}

// dryRun previews what would be processed without touching the key or any file.
func dryRun(cfg *config.Config, scanned, excluded int, start time.Time) error {
	var totalSize int64

	processed := len(cfg.Files)

	for _, file := range cfg.Files {
		if !cfg.Quiet {
			fmt.Printf("Would process %q -> %q\n", file, outputPath(file, cfg)) //nolint:forbidigo
		}

		if cfg.Stats {
			if info, err := os.Stat(file); err == nil {
				totalSize += info.Size()
			}
		}
	}

	if cfg.Stats {
		printStats(scanned, excluded, processed, 0, totalSize, time.Since(start))
	}

	return nil
}

func outputPath(filename string, cfg *config.Config) string {
	ext := cfg.EncryptSuffix

	if cfg.Decrypt {
		filename = strings.TrimSuffix(filename, cfg.EncryptSuffix)
		ext = cfg.DecryptSuffix
	}

	return filepath.Join(filepath.Dir(filename), filepath.Base(filename)+ext)
}

func printStats(scanned, excluded, processed, errored int, totalSize int64, duration time.Duration) {
	fmt.Fprintf(os.Stderr, "\nStats\n")
	fmt.Fprintf(os.Stderr, "  Scanned:   %d\n", scanned)
	fmt.Fprintf(os.Stderr, "  Excluded:  %d\n", excluded)
	fmt.Fprintf(os.Stderr, "  Processed: %d\n", processed)
	fmt.Fprintf(os.Stderr, "  Errors:    %d\n", errored)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(os.Stderr, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totalSize))))
	fmt.Fprintf(os.Stderr, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
