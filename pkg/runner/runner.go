package runner

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/codeblock/internal/logging"
	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/validate"
)

// Runner validates files with a shared validator. Validate is pure, so one
// validator serves every worker.
type Runner struct {
	Validator *validate.Validator
}

// New creates a Runner.
func New(v *validate.Validator) *Runner {
	return &Runner{Validator: v}
}

// Run discovers files under opts.Paths and validates them on a pool of
// opts.Jobs workers. Outcomes keep discovery order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files)), Stats: newStats()}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	workers := opts.Jobs
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(files))

	// Each worker writes only the slots it was handed, so the slice needs
	// no lock; a nil slot means the job was never run.
	slots := make([]*FileOutcome, len(files))
	jobs := make(chan int)
	logger := logging.FromContext(ctx)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcome := r.check(logger, files[i], opts.languageFor(files[i]))
				slots[i] = &outcome
			}
		}()
	}

dispatch:
	for i := range files {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	for _, outcome := range slots {
		if outcome != nil {
			result.accumulate(*outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

func (r *Runner) check(logger *log.Logger, path string, lang config.Language) FileOutcome {
	fr, err := r.ProcessFile(path, lang)
	if err != nil {
		logger.Warn("cannot validate file", logging.FieldPath, path, logging.FieldError, err)
		return FileOutcome{Path: path, Error: err}
	}
	logger.Debug("validated file",
		logging.FieldPath, path,
		logging.FieldLanguage, fr.Language,
		logging.FieldErrors, len(fr.Errors),
	)
	return FileOutcome{Path: path, Result: fr}
}

// ProcessFile reads and validates one file.
func (r *Runner) ProcessFile(path string, lang config.Language) (*FileResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &FileResult{
		Path:     path,
		Language: lang,
		Content:  content,
		Errors:   r.Validator.Validate(string(content), lang),
	}, nil
}
