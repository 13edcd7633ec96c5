// Package validate checks pipeline artifacts against their JSON
// schemas, one pair at a time or across a whole jobs directory.
package validate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/sync/errgroup"

	"storyglot/internal/logging"
	"storyglot/internal/schemas"
	"storyglot/internal/services"
)

// concurrent validation fan-out for validate-all
const maxParallel = 4

// PairResult is the outcome of validating one data file.
type PairResult struct {
	Schema   string
	Data     string
	Failures []string
	Err      error
}

// Passed reports whether the pair validated cleanly.
func (r PairResult) Passed() bool {
	return r.Err == nil && len(r.Failures) == 0
}

// Summary aggregates validate-all results.
type Summary struct {
	Results []PairResult
	Total   int
	Passed  int
}

// Pair validates a data file against a schema file on disk and returns
// one "pointer: message" line per failure.
func Pair(schemaPath, dataPath string) ([]string, error) {
	schema, err := schemas.CompileFile(schemaPath)
	if err != nil {
		return nil, services.Wrap(services.ErrMalformedInput, "validate", "schema", "load schema", err)
	}
	data, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, services.Wrap(services.ErrMalformedInput, "validate", "data", "read data file", err)
	}
	failures, err := schemas.Check(schema, data)
	if err != nil {
		return nil, services.Wrap(services.ErrMalformedInput, "validate", "data", "parse data file", err)
	}
	return failures, nil
}

// All walks a jobs directory and validates each job's normalized story
// and, when present, its timeline against the embedded schemas. Jobs
// run concurrently; the summary preserves path order.
func All(ctx context.Context, jobsDir string, logger *slog.Logger) (*Summary, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	type pair struct {
		schemaName string
		dataPath   string
	}

	entries, err := os.ReadDir(jobsDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "validate", "all", "read jobs directory", err)
	}

	var pairs []pair
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		jobDir := filepath.Join(jobsDir, entry.Name())
		story := filepath.Join(jobDir, "normalized", "story.normalized.json")
		if _, err := os.Stat(story); err == nil {
			pairs = append(pairs, pair{schemas.Story, story})
		}
		timeline := filepath.Join(jobDir, "timeline", "timeline.json")
		if _, err := os.Stat(timeline); err == nil {
			pairs = append(pairs, pair{schemas.Timeline, timeline})
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].dataPath < pairs[j].dataPath })

	compiled := map[string]*jsonschema.Schema{}
	for _, name := range schemas.Names() {
		schema, err := schemas.Compile(name)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "validate", "all", "compile embedded schema", err)
		}
		compiled[name] = schema
	}

	results := make([]PairResult, len(pairs))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxParallel)
	for i, p := range pairs {
		i, p := i, p
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result := PairResult{Schema: p.schemaName, Data: p.dataPath}
			data, err := os.ReadFile(p.dataPath)
			if err != nil {
				result.Err = fmt.Errorf("read %s: %w", p.dataPath, err)
			} else {
				failures, err := schemas.Check(compiled[p.schemaName], data)
				if err != nil {
					result.Err = err
				} else {
					result.Failures = failures
				}
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{Results: results, Total: len(results)}
	for _, r := range results {
		if r.Passed() {
			summary.Passed++
		} else {
			logger.Warn("artifact failed validation",
				logging.String("data", r.Data),
				logging.Int("failures", len(r.Failures)),
				logging.Error(r.Err))
		}
	}
	return summary, nil
}
