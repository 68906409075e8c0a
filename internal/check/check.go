// Package check reports which expected files are absent from a directory.
package check

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chmdznr/oss-component-checker/pkg/models"
	"github.com/spf13/afero"
)

// ErrInvalidPath is returned for names the platform cannot represent.
var ErrInvalidPath = errors.New("invalid path")

// Prober tests whether a single expected file is present.
type Prober interface {
	Probe(ctx context.Context, name string) (models.FileEntry, bool)
}

// DirProber looks for regular files inside a directory of fs
type DirProber struct {
	Fs  afero.Fs
	Dir string
}

// NewDirProber returns a prober rooted at dir on fs, or on the OS
// filesystem when fs is nil. The directory is not required to exist: when
// it doesn't, every probe reports the file as absent.
func NewDirProber(fs afero.Fs, dir string) (*DirProber, error) {
	if err := validateName(dir); err != nil {
		return nil, err
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &DirProber{Fs: fs, Dir: dir}, nil
}

// Probe stats dir/name. Anything other than a regular file, including stat
// errors such as permission denied, counts as absent.
func (p *DirProber) Probe(_ context.Context, name string) (models.FileEntry, bool) {
	info, err := p.Fs.Stat(filepath.Join(p.Dir, name))
	if err != nil || !info.Mode().IsRegular() {
		return models.FileEntry{}, false
	}
	return models.FileEntry{Name: name, Size: info.Size()}, true
}

// Result holds the outcome of one pass over the expected list
type Result struct {
	Expected []string
	Present  []models.FileEntry
	Missing  []string
	Elapsed  time.Duration
}

// Clean reports whether nothing was missing
func (r *Result) Clean() bool {
	return len(r.Missing) == 0
}

// PresentSize is the total size of the files that were found
func (r *Result) PresentSize() int64 {
	var total int64
	for _, entry := range r.Present {
		total += entry.Size
	}
	return total
}

// CheckerConfig holds configuration for the checker
type CheckerConfig struct {
	// NumWorkers above one probes files concurrently.
	NumWorkers int
	// OnProbe, if set, is called after every probe. It may be called from
	// several goroutines at once.
	OnProbe func(name string, present bool)
}

// DefaultCheckerConfig returns the sequential configuration
func DefaultCheckerConfig() CheckerConfig {
	return CheckerConfig{NumWorkers: 1}
}

// Checker runs a Prober over an expected file list
type Checker struct {
	prober     Prober
	numWorkers int
	onProbe    func(name string, present bool)
}

// NewChecker creates a new checker instance
func NewChecker(prober Prober, config *CheckerConfig) *Checker {
	if config == nil {
		defaultConfig := DefaultCheckerConfig()
		config = &defaultConfig
	}
	numWorkers := config.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Checker{
		prober:     prober,
		numWorkers: numWorkers,
		onProbe:    config.OnProbe,
	}
}

type probeResult struct {
	entry   models.FileEntry
	present bool
}

// Run probes every expected name. Missing keeps the relative order of
// expected regardless of the number of workers.
func (c *Checker) Run(ctx context.Context, expected []string) (*Result, error) {
	for _, name := range expected {
		if err := validateName(name); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	results := make([]probeResult, len(expected))

	if c.numWorkers == 1 || len(expected) < 2 {
		for i, name := range expected {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = c.probe(ctx, name)
		}
	} else {
		jobs := make(chan int, c.numWorkers)
		var wg sync.WaitGroup
		for w := 0; w < c.numWorkers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					results[i] = c.probe(ctx, expected[i])
				}
			}()
		}

	send:
		for i := range expected {
			select {
			case jobs <- i:
			case <-ctx.Done():
				break send
			}
		}
		close(jobs)
		wg.Wait()

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	result := &Result{
		Expected: expected,
		Present:  make([]models.FileEntry, 0, len(expected)),
		Missing:  make([]string, 0),
	}
	for i, name := range expected {
		if results[i].present {
			result.Present = append(result.Present, results[i].entry)
		} else {
			result.Missing = append(result.Missing, name)
		}
	}
	result.Elapsed = time.Since(start)
	return result, nil
}

func (c *Checker) probe(ctx context.Context, name string) probeResult {
	entry, present := c.prober.Probe(ctx, name)
	if c.onProbe != nil {
		c.onProbe(name, present)
	}
	return probeResult{entry: entry, present: present}
}

// Check returns the names from expected that have no regular file under
// baseDir, in their original order. A missing or unreadable baseDir yields
// every name; only unrepresentable paths produce an error.
func Check(expected []string, baseDir string) ([]string, error) {
	prober, err := NewDirProber(afero.NewOsFs(), baseDir)
	if err != nil {
		return nil, err
	}
	result, err := NewChecker(prober, nil).Run(context.Background(), expected)
	if err != nil {
		return nil, err
	}
	return result.Missing, nil
}

func validateName(name string) error {
	if strings.IndexByte(name, 0) >= 0 {
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidPath, name)
	}
	return nil
}
