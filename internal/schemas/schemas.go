// Package schemas holds the JSON schemas for pipeline documents and the
// validation plumbing built around them.
package schemas

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed story_schema.json timeline_schema.json
var schemaFS embed.FS

// Schema names accepted by ingest and validate commands.
const (
	Story    = "story"
	Timeline = "timeline"
)

// Names returns the known schema names in sorted order.
func Names() []string {
	names := []string{Story, Timeline}
	sort.Strings(names)
	return names
}

func fileName(name string) (string, error) {
	switch name {
	case Story, Timeline:
		return name + "_schema.json", nil
	default:
		return "", fmt.Errorf("unknown schema %q (expected one of %s)", name, strings.Join(Names(), ", "))
	}
}

// Raw returns the decoded schema document. Callers that walk schema
// properties, like the ingest normalizer, use this form.
func Raw(name string) (map[string]any, error) {
	file, err := fileName(name)
	if err != nil {
		return nil, err
	}
	data, err := schemaFS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read embedded schema %s: %w", file, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse embedded schema %s: %w", file, err)
	}
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("embedded schema %s is not an object", file)
	}
	return m, nil
}

// Compile returns the compiled form of a named embedded schema.
func Compile(name string) (*jsonschema.Schema, error) {
	file, err := fileName(name)
	if err != nil {
		return nil, err
	}
	data, err := schemaFS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read embedded schema %s: %w", file, err)
	}
	return compileBytes(file, data)
}

// CompileFile compiles a schema from an arbitrary path, for the
// validate command which accepts external schema files.
func CompileFile(path string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", path, err)
	}
	return schema, nil
}

func compileBytes(url string, data []byte) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", url, err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("register schema %s: %w", url, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", url, err)
	}
	return schema, nil
}

// Check validates raw JSON bytes against a compiled schema and returns
// one "pointer: message" line per leaf failure. A nil slice means the
// instance is valid. Non-validation problems, like unparseable input,
// come back as the error.
func Check(schema *jsonschema.Schema, data []byte) ([]string, error) {
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse instance: %w", err)
	}
	return CheckValue(schema, instance), nil
}

// CheckValue validates an already-decoded instance.
func CheckValue(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	printer := message.NewPrinter(language.English)
	var lines []string
	collectLeaves(ve, printer, &lines)
	return lines
}

func collectLeaves(ve *jsonschema.ValidationError, printer *message.Printer, out *[]string) {
	if len(ve.Causes) == 0 {
		*out = append(*out, fmt.Sprintf("%s: %s", pointer(ve.InstanceLocation), ve.ErrorKind.LocalizedString(printer)))
		return
	}
	for _, cause := range ve.Causes {
		collectLeaves(cause, printer, out)
	}
}

func pointer(location []string) string {
	if len(location) == 0 {
		return "/"
	}
	return "/" + strings.Join(location, "/")
}
