package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"storyglot/internal/services"
	"storyglot/internal/tts"
)

const testStory = `{
	"title": "Казка про діда",
	"scenes": [
		{
			"id": "s1",
			"dialogue": [
				{"speaker": "narrator", "text": "Жив собі дід. Він сказав: \"Добрий день!\""}
			]
		}
	]
}`

func writeStory(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "story.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func findJobDir(t *testing.T, configPath string) string {
	t.Helper()
	// The jobs dir sits next to the config file in the test layout.
	jobsDir := filepath.Join(filepath.Dir(configPath), "jobs")
	entries, err := os.ReadDir(jobsDir)
	if err != nil {
		t.Fatalf("read jobs dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one job directory, got %d", len(entries))
	}
	return filepath.Join(jobsDir, entries[0].Name())
}

func TestIngestThenTTS(t *testing.T) {
	configPath := writeTestConfig(t)
	storyPath := writeStory(t, testStory)

	out, err := runCLI(t, []string{"ingest", "--input", storyPath}, configPath)
	if err != nil {
		t.Fatalf("ingest: %v\n%s", err, out)
	}
	requireContains(t, out, "kazka-pro-dida")

	jobDir := findJobDir(t, configPath)
	normalized := filepath.Join(jobDir, "normalized", "story.normalized.json")
	if _, err := os.Stat(normalized); err != nil {
		t.Fatalf("normalized story missing: %v", err)
	}

	linesPath := filepath.Join(jobDir, "tts", "tts_lines.json")
	out, err = runCLI(t, []string{
		"tts", "--input", normalized, "--output", linesPath,
		"--job", filepath.Base(jobDir),
	}, configPath)
	if err != nil {
		t.Fatalf("tts: %v\n%s", err, out)
	}

	data, err := os.ReadFile(linesPath)
	if err != nil {
		t.Fatalf("read lines: %v", err)
	}
	var lines []tts.Line
	if err := json.Unmarshal(data, &lines); err != nil {
		t.Fatalf("parse lines: %v", err)
	}
	if len(lines) == 0 {
		t.Fatal("expected generated lines")
	}
	if lines[0].ID != "s1_001" {
		t.Fatalf("unexpected first line id %q", lines[0].ID)
	}

	// The job index should reflect the tts run.
	out, err = runCLI(t, []string{"jobs", "list"}, configPath)
	if err != nil {
		t.Fatalf("jobs list: %v", err)
	}
	requireContains(t, out, filepath.Base(jobDir))
	requireContains(t, out, "tts")
}

func TestIngestStrictFailure(t *testing.T) {
	configPath := writeTestConfig(t)
	storyPath := writeStory(t, `{"title": "Без сцен"}`)

	out, err := runCLI(t, []string{"ingest", "--input", storyPath}, configPath)
	if err == nil {
		t.Fatalf("expected strict ingest to fail, output:\n%s", out)
	}
	if services.ExitCode(err) != 1 {
		t.Fatalf("expected exit code 1, got %d", services.ExitCode(err))
	}

	// Lenient mode records the failure but succeeds.
	if _, err := runCLI(t, []string{"ingest", "--input", storyPath, "--lenient"}, configPath); err != nil {
		t.Fatalf("lenient ingest: %v", err)
	}
}

func TestTTSEnforceKnownFailure(t *testing.T) {
	configPath := writeTestConfig(t)
	story := writeStory(t, `{
		"title": "x",
		"scenes": [
			{"id": "s1", "dialogue": [{"speaker": "Захар", "text": "Привіт."}]}
		]
	}`)

	output := filepath.Join(t.TempDir(), "lines.json")
	out, err := runCLI(t, []string{
		"tts", "--input", story, "--output", output, "--enforce-known",
	}, configPath)
	if err == nil {
		t.Fatalf("expected enforced run to fail, output:\n%s", out)
	}
	requireContains(t, out, "Захар")
	if _, statErr := os.Stat(output); statErr == nil {
		t.Fatal("no output file should be written on enforced failure")
	}
}

func TestAssetsInitAndAddConstant(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, err := runCLI(t, []string{"assets", "init"}, configPath); err != nil {
		t.Fatalf("assets init: %v", err)
	}

	constant := filepath.Join(t.TempDir(), "voices.json")
	if err := os.WriteFile(constant, []byte(`{"narrator": "voice_1"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, []string{"assets", "add-constant", constant}, configPath)
	if err != nil {
		t.Fatalf("add-constant: %v", err)
	}
	requireContains(t, out, "sha256_")

	out, err = runCLI(t, []string{"assets", "list"}, configPath)
	if err != nil {
		t.Fatalf("assets list: %v", err)
	}
	requireContains(t, out, "voices")

	// Unimplemented kinds surface the distinct exit code.
	_, err = runCLI(t, []string{"assets", "add-image", constant}, configPath)
	if services.ExitCode(err) != 2 {
		t.Fatalf("expected exit code 2 for add-image, got %d (%v)", services.ExitCode(err), err)
	}
}

func TestSpeakersInitAndList(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, err := runCLI(t, []string{"speakers", "init"}, configPath); err != nil {
		t.Fatalf("speakers init: %v", err)
	}
	if _, err := runCLI(t, []string{
		"speakers", "add", "grandpa", "--display-name", "Дідусь", "--voice", "voice_old_man",
	}, configPath); err != nil {
		t.Fatalf("speakers add: %v", err)
	}
	if _, err := runCLI(t, []string{
		"speakers", "add-map-pattern", "^Дідусь$", "grandpa",
	}, configPath); err != nil {
		t.Fatalf("add-map-pattern: %v", err)
	}

	out, err := runCLI(t, []string{"speakers", "list"}, configPath)
	if err != nil {
		t.Fatalf("speakers list: %v", err)
	}
	requireContains(t, out, "narrator")
	requireContains(t, out, "grandpa")
	requireContains(t, out, "^Дідусь$")
	requireContains(t, out, "Fallback: narrator")
}

func TestValidateAllCommand(t *testing.T) {
	configPath := writeTestConfig(t)
	storyPath := writeStory(t, testStory)

	if _, err := runCLI(t, []string{"ingest", "--input", storyPath}, configPath); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	out, err := runCLI(t, []string{"validate-all"}, configPath)
	if err != nil {
		t.Fatalf("validate-all: %v\n%s", err, out)
	}
	requireContains(t, out, "Validation complete: 1/1 passed")
}
