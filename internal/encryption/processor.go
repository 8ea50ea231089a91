package encryption

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ninja-atmos/pixlock/internal/config"
	"github.com/ninja-atmos/pixlock/internal/keystore"
)

// Processor handles the encryption and decryption of a batch of files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// engine seals and opens ciphertext records
	engine *Engine

	// log reports per-file progress and failures
	log zerolog.Logger

	// results channels processing outcomes to the reporter goroutine
	results chan Result
}

// NewProcessor creates a Processor for the given configuration and key.
func NewProcessor(cfg *config.Config, key keystore.Key, log zerolog.Logger) (*Processor, error) {
	engine, err := NewEngine(key)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}

	return &Processor{
		cfg:     cfg,
		engine:  engine,
		log:     log,
		results: make(chan Result, len(cfg.Files)),
	}, nil
}

// op returns the operation label for the configured direction.
func (p *Processor) op() string {
	if p.cfg.Decrypt {
		return OpDecrypt
	}

	return OpEncrypt
}

// ProcessFiles concurrently processes all files in the configuration.
// Per-file failures are reported and counted without aborting the batch;
// the returned error is non-nil if any file failed.
func (p *Processor) ProcessFiles() (processed, errored int, totalSize int64, err error) {
	group := errgroup.Group{}
	group.SetLimit(p.cfg.Parallel)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range p.results {
			if result.Err != nil {
				errored++

				p.log.Error().
					Str("op", result.Op).
					Str("input", result.Input).
					Err(result.Err).
					Msg("processing failed")

				continue
			}

			processed++

			totalSize += result.Size

			p.log.Info().
				Str("op", result.Op).
				Str("input", result.Input).
				Str("output", result.Output).
				Dur("took", result.Took).
				Msg("processed")

			if p.cfg.Delete {
				if err := os.Remove(result.Input); err != nil {
					p.log.Error().Str("input", result.Input).Err(err).Msg("deleting source failed")
				} else {
					p.log.Info().Str("input", result.Input).Msg("deleted source")
				}
			}
		}
	}()

	for _, file := range p.cfg.Files {
		file := file

		group.Go(func() error {
			start := time.Now()
			outPath := p.outputPath(file)

			size, err := p.processFile(file, outPath)
			if err != nil {
				p.results <- Result{Op: p.op(), Input: file, Err: err}

				return err
			}

			p.results <- Result{
				Op:     p.op(),
				Input:  file,
				Output: outPath,
				Size:   size,
				Took:   time.Since(start),
			}

			return nil
		})
	}

	err = group.Wait()

	close(p.results)

	<-done // Wait for reporter to finish

	if err != nil {
		return processed, errored, totalSize, fmt.Errorf("processing files: %w", err)
	}

	return processed, errored, totalSize, nil
}

// processFile runs one whole-file transform in the configured direction.
func (p *Processor) processFile(filename, outPath string) (int64, error) {
	if p.cfg.Decrypt {
		size, err := p.engine.decryptFile(filename, outPath, p.cfg.PreserveTimestamps)
		if err != nil {
			return 0, fmt.Errorf("decrypting file: %w", err)
		}

		return size, nil
	}

	size, err := p.engine.encryptFile(filename, outPath, p.cfg.PreserveTimestamps)
	if err != nil {
		return 0, fmt.Errorf("encrypting file: %w", err)
	}

	return size, nil
}

// outputPath maps an input filename to its output path using the
// configured suffixes. Decrypting a file that lacks the encrypt suffix
// with an empty decrypt suffix maps to the input itself; the transform
// refuses that case rather than overwrite its input.
func (p *Processor) outputPath(filename string) string {
	ext := p.cfg.EncryptSuffix

	if p.cfg.Decrypt {
		filename = strings.TrimSuffix(filename, p.cfg.EncryptSuffix)
		ext = p.cfg.DecryptSuffix
	}

	return filepath.Join(filepath.Dir(filename),
		filepath.Base(filename)+ext)
}
