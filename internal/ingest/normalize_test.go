package ingest

import (
	"reflect"
	"testing"

	"storyglot/internal/schemas"
)

func storySchema(t *testing.T) map[string]any {
	t.Helper()
	raw, err := schemas.Raw(schemas.Story)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return raw
}

func TestNormalizeMovesUnknownFieldsToExtra(t *testing.T) {
	doc := map[string]any{
		"title":  "Казка",
		"author": "невідомий",
		"scenes": []any{},
	}
	got, ok := Normalize(doc, storySchema(t)).(map[string]any)
	if !ok {
		t.Fatal("expected object result")
	}
	if got["title"] != "Казка" {
		t.Fatalf("known field lost: %v", got)
	}
	if _, ok := got["author"]; ok {
		t.Fatal("unknown field should have moved to _extra")
	}
	extra, ok := got["_extra"].(map[string]any)
	if !ok || extra["author"] != "невідомий" {
		t.Fatalf("unexpected _extra: %v", got["_extra"])
	}
}

func TestNormalizeRecursesIntoArrayItems(t *testing.T) {
	doc := map[string]any{
		"title": "x",
		"scenes": []any{
			map[string]any{
				"id":    "s1",
				"mood":  "dark",
				"dialogue": []any{
					map[string]any{"speaker": "narrator", "text": "...", "volume": "loud"},
				},
			},
		},
	}
	got := Normalize(doc, storySchema(t)).(map[string]any)
	scene := got["scenes"].([]any)[0].(map[string]any)
	if _, ok := scene["mood"]; ok {
		t.Fatal("scene-level unknown field should be under _extra")
	}
	sceneExtra := scene["_extra"].(map[string]any)
	if sceneExtra["mood"] != "dark" {
		t.Fatalf("unexpected scene _extra: %v", sceneExtra)
	}
	unit := scene["dialogue"].([]any)[0].(map[string]any)
	unitExtra, ok := unit["_extra"].(map[string]any)
	if !ok || unitExtra["volume"] != "loud" {
		t.Fatalf("unexpected dialogue _extra: %v", unit)
	}
	if unit["speaker"] != "narrator" || unit["text"] != "..." {
		t.Fatalf("known dialogue fields lost: %v", unit)
	}
}

func TestNormalizeWithoutUnknownFieldsAddsNoExtra(t *testing.T) {
	doc := map[string]any{
		"title":  "x",
		"scenes": []any{map[string]any{"id": "s1"}},
	}
	got := Normalize(doc, storySchema(t)).(map[string]any)
	if _, ok := got["_extra"]; ok {
		t.Fatal("_extra must be absent when everything is known")
	}
	scene := got["scenes"].([]any)[0].(map[string]any)
	if _, ok := scene["_extra"]; ok {
		t.Fatal("scene _extra must be absent when everything is known")
	}
}

func TestNormalizePassesThroughNonObjects(t *testing.T) {
	schema := storySchema(t)
	for _, value := range []any{"text", 42.0, []any{"a"}, nil} {
		got := Normalize(value, schema)
		if !reflect.DeepEqual(got, value) {
			t.Fatalf("Normalize(%v) = %v, want unchanged", value, got)
		}
	}
}
