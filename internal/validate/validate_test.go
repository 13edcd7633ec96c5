package validate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storyglot/internal/logging"
)

const validStory = `{
	"title": "Казка",
	"scenes": [{"id": "s1", "dialogue": [{"speaker": "narrator", "text": "Жив дід."}]}]
}`

const invalidStory = `{"title": "Без сцен"}`

const validTimeline = `{
	"job_id": "j1",
	"tracks": [{"kind": "audio", "clips": [{"asset": "a.wav", "start_sec": 0}]}]
}`

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPair(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	writeFile(t, schemaPath, `{
		"type": "object",
		"required": ["title"],
		"properties": {"title": {"type": "string"}}
	}`)

	dataPath := filepath.Join(dir, "good.json")
	writeFile(t, dataPath, `{"title": "ok"}`)
	failures, err := Pair(schemaPath, dataPath)
	if err != nil {
		t.Fatalf("pair: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("expected valid data, got %v", failures)
	}

	badPath := filepath.Join(dir, "bad.json")
	writeFile(t, badPath, `{"title": 7}`)
	failures, err = Pair(schemaPath, badPath)
	if err != nil {
		t.Fatalf("pair: %v", err)
	}
	if len(failures) == 0 {
		t.Fatal("expected failures for wrong type")
	}
	if !strings.HasPrefix(failures[0], "/title") {
		t.Fatalf("expected /title pointer, got %q", failures[0])
	}
}

func TestPairMissingFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := Pair(filepath.Join(dir, "no-schema.json"), filepath.Join(dir, "no-data.json")); err == nil {
		t.Fatal("expected error for missing schema")
	}
}

func TestAllWalksJobs(t *testing.T) {
	jobsDir := t.TempDir()

	writeFile(t, filepath.Join(jobsDir, "job-good", "normalized", "story.normalized.json"), validStory)
	writeFile(t, filepath.Join(jobsDir, "job-good", "timeline", "timeline.json"), validTimeline)
	writeFile(t, filepath.Join(jobsDir, "job-bad", "normalized", "story.normalized.json"), invalidStory)
	// A stray file at the top level is ignored.
	writeFile(t, filepath.Join(jobsDir, "README.txt"), "not a job")

	summary, err := All(context.Background(), jobsDir, logging.NewNop())
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if summary.Total != 3 {
		t.Fatalf("expected 3 artifacts, got %d", summary.Total)
	}
	if summary.Passed != 2 {
		t.Fatalf("expected 2 passing artifacts, got %d", summary.Passed)
	}

	var sawBad bool
	for _, r := range summary.Results {
		if strings.Contains(r.Data, "job-bad") {
			sawBad = true
			if r.Passed() {
				t.Fatalf("job-bad should fail: %+v", r)
			}
			if len(r.Failures) == 0 {
				t.Fatalf("expected failure lines for job-bad, got %+v", r)
			}
		}
	}
	if !sawBad {
		t.Fatal("job-bad missing from results")
	}
}

func TestAllDeterministicOrder(t *testing.T) {
	jobsDir := t.TempDir()
	for _, name := range []string{"c-job", "a-job", "b-job"} {
		writeFile(t, filepath.Join(jobsDir, name, "normalized", "story.normalized.json"), validStory)
	}

	summary, err := All(context.Background(), jobsDir, logging.NewNop())
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	var paths []string
	for _, r := range summary.Results {
		paths = append(paths, r.Data)
	}
	for i := 1; i < len(paths); i++ {
		if paths[i-1] >= paths[i] {
			t.Fatalf("results not ordered by path: %v", paths)
		}
	}
}

func TestAllUnreadableArtifact(t *testing.T) {
	jobsDir := t.TempDir()
	writeFile(t, filepath.Join(jobsDir, "job-x", "normalized", "story.normalized.json"), `{broken`)

	summary, err := All(context.Background(), jobsDir, logging.NewNop())
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if summary.Total != 1 || summary.Passed != 0 {
		t.Fatalf("expected one failing artifact, got %+v", summary)
	}
	if summary.Results[0].Err == nil {
		t.Fatal("expected a parse error on the result")
	}
}

func TestAllMissingJobsDir(t *testing.T) {
	if _, err := All(context.Background(), filepath.Join(t.TempDir(), "absent"), logging.NewNop()); err == nil {
		t.Fatal("expected error for missing jobs directory")
	}
}
