// Package ingest turns raw story JSON into a validated, normalized job
// directory that the rest of the pipeline works from.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"storyglot/internal/logging"
	"storyglot/internal/schemas"
	"storyglot/internal/services"
)

// Job statuses recorded in the manifest and the jobs index.
const (
	StatusDraft  = "draft"
	StatusFailed = "failed"
)

// Canonical layout of a job directory. Every stage reads and writes
// through these paths so the manifest stays authoritative.
var manifestPaths = map[string]string{
	"source_story":   "source/story.raw.json",
	"story":          "normalized/story.normalized.json",
	"tts_lines":      "tts/tts_lines.json",
	"audio_manifest": "tts/audio/audio_manifest.json",
	"storyboard":     "visual/storyboard.json",
	"asset_manifest": "visual/asset_manifest.json",
	"timeline":       "timeline/timeline.json",
	"ffmpeg_script":  "timeline/ffmpeg_script.txt",
	"video":          "video/final.mp4",
}

// Options configures one ingest run.
type Options struct {
	Input   string
	Schema  string
	OutDir  string
	Title   string // overrides the document title for job id purposes
	Lenient bool   // record validation failures instead of failing the run
	Now     func() time.Time
}

// Manifest is the job-level index written to story_job_manifest.json.
type Manifest struct {
	JobID     string            `json:"job_id"`
	CreatedAt string            `json:"created_at"`
	Title     string            `json:"title"`
	Slug      string            `json:"slug"`
	Paths     map[string]string `json:"paths"`
	Status    string            `json:"status"`
}

// Timing captures wall-clock bounds of a run in unix seconds.
type Timing struct {
	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time"`
	DurationSec float64 `json:"duration_sec"`
}

// Report is the machine-readable ingest report. RunID distinguishes
// repeated ingests of the same job.
type Report struct {
	RunID  string   `json:"run_id"`
	JobID  string   `json:"job_id"`
	Status string   `json:"status"`
	Input  string   `json:"input"`
	Schema string   `json:"schema"`
	Mode   string   `json:"mode"`
	Errors []string `json:"errors"`
	Timing Timing   `json:"timing"`
}

// Result summarizes a completed ingest run for the caller.
type Result struct {
	JobID  string
	Title  string
	Slug   string
	Dir    string
	Status string
	Errors []string
}

// GenerateJobID builds the job identifier from a UTC timestamp and the
// title slug, e.g. "2026-03-01T10-20-30Z__divchynka-i-vovk".
func GenerateJobID(title string, now time.Time) string {
	return now.UTC().Format("2006-01-02T15-04-05Z") + "__" + Slug(title)
}

func isURL(input string) bool {
	u, err := url.Parse(input)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Run executes an ingest: load the input, validate it against the named
// schema, normalize unknown fields into _extra, and lay down the job
// directory with manifest and reports. In strict mode (the default) a
// validation failure returns an error after the job directory and its
// failure report have been written.
func Run(opts Options, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	if isURL(opts.Input) {
		return nil, services.Wrap(services.ErrNotImplemented, "ingest", "fetch", "remote inputs are not available yet", nil)
	}

	start := now()

	raw, err := os.ReadFile(opts.Input)
	if err != nil {
		return nil, services.Wrap(services.ErrMalformedInput, "ingest", "load", "read input file", err)
	}
	data, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, services.Wrap(services.ErrMalformedInput, "ingest", "load", "input is not valid JSON", err)
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		if obj, ok := data.(map[string]any); ok {
			if t, ok := obj["title"].(string); ok {
				title = t
			}
		}
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(opts.Input), filepath.Ext(opts.Input))
	}

	jobID := GenerateJobID(title, start)
	slug := Slug(title)
	jobDir := filepath.Join(opts.OutDir, jobID)

	for _, sub := range []string{"source", "normalized", "reports"} {
		if err := os.MkdirAll(filepath.Join(jobDir, sub), 0o755); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "ingest", "layout", "create job directory", err)
		}
	}

	if err := writeJSON(filepath.Join(jobDir, manifestPaths["source_story"]), data); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "ingest", "layout", "write raw copy", err)
	}

	schema, err := schemas.Compile(opts.Schema)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "ingest", "schema", "load schema", err)
	}
	rawSchema, err := schemas.Raw(opts.Schema)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "ingest", "schema", "load schema", err)
	}

	failures := schemas.CheckValue(schema, data)
	status := StatusDraft
	if len(failures) > 0 {
		status = StatusFailed
		for _, line := range failures {
			logger.Warn("validation failure", logging.String("detail", line))
		}
	} else {
		logger.Info("validation passed", logging.String("schema", opts.Schema))
	}

	normalized := Normalize(data, rawSchema)
	if err := writeJSON(filepath.Join(jobDir, manifestPaths["story"]), normalized); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "ingest", "normalize", "write normalized story", err)
	}

	end := now()

	manifest := Manifest{
		JobID:     jobID,
		CreatedAt: start.UTC().Format(time.RFC3339),
		Title:     title,
		Slug:      slug,
		Paths:     manifestPaths,
		Status:    status,
	}
	if err := writeJSON(filepath.Join(jobDir, "story_job_manifest.json"), manifest); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "ingest", "manifest", "write job manifest", err)
	}

	mode := "strict"
	if opts.Lenient {
		mode = "lenient"
	}
	report := Report{
		RunID:  uuid.NewString(),
		JobID:  jobID,
		Status: status,
		Input:  opts.Input,
		Schema: opts.Schema,
		Mode:   mode,
		Errors: append([]string{}, failures...),
		Timing: Timing{
			StartTime:   unixSeconds(start),
			EndTime:     unixSeconds(end),
			DurationSec: math.Round(end.Sub(start).Seconds()*1000) / 1000,
		},
	}
	if err := writeJSON(filepath.Join(jobDir, "reports", "ingest.report.json"), report); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "ingest", "report", "write JSON report", err)
	}
	if err := writeTextReport(filepath.Join(jobDir, "reports", "ingest.report.txt"), report); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "ingest", "report", "write text report", err)
	}

	result := &Result{
		JobID:  jobID,
		Title:  title,
		Slug:   slug,
		Dir:    jobDir,
		Status: status,
		Errors: report.Errors,
	}
	logger.Info("job created",
		logging.String("job_id", jobID),
		logging.String("status", status),
		logging.Int("validation_failures", len(failures)))

	if status == StatusFailed && !opts.Lenient {
		return result, services.Wrap(services.ErrValidation, "ingest", "validate", fmt.Sprintf("%d validation failure(s)", len(failures)), nil)
	}
	return result, nil
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func writeTextReport(path string, report Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Job ID: %s\n", report.JobID)
	fmt.Fprintf(&b, "Status: %s\n", report.Status)
	fmt.Fprintf(&b, "Input: %s\n", report.Input)
	fmt.Fprintf(&b, "Schema: %s\n", report.Schema)
	fmt.Fprintf(&b, "Mode: %s\n", report.Mode)
	fmt.Fprintf(&b, "Duration: %gs\n", report.Timing.DurationSec)
	if len(report.Errors) > 0 {
		fmt.Fprintf(&b, "\nErrors (%d):\n", len(report.Errors))
		for _, line := range report.Errors {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	} else {
		b.WriteString("\nNo errors found.\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
