package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestBuildSchemasCoversProtocolAndCatalogs(t *testing.T) {
	files := buildSchemas()
	for _, name := range []string{
		filepath.Join("protocol", "hello.schema.json"),
		filepath.Join("protocol", "command.schema.json"),
		filepath.Join("catalogs", "items.schema.json"),
		filepath.Join("catalogs", "tiles.schema.json"),
		"settings.schema.json",
	} {
		if files[name] == nil {
			t.Fatalf("missing %s (have %d schemas)", name, len(files))
		}
	}
}

func TestWriteSchemaIsValidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "hello.schema.json")
	if err := writeSchema(path, buildSchemas()[filepath.Join("protocol", "hello.schema.json")]); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc["title"] != "HELLO" {
		t.Fatalf("title=%v", doc["title"])
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}
