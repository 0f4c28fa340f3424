package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"

	"hearthwild.dev/internal/protocol"
	"hearthwild.dev/internal/sim/catalogs"
	"hearthwild.dev/internal/sim/tuning"
)

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "./schemas", "directory to write the JSON schemas into")
	flag.Parse()

	if strings.TrimSpace(outDir) == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	files := buildSchemas()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(outDir, name)
		if err := writeSchema(path, files[name]); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(path)
	}
}

// buildSchemas keys every schema by its path relative to the output dir.
func buildSchemas() map[string]*jsonschema.Schema {
	out := map[string]*jsonschema.Schema{}
	for name, s := range protocol.Schemas() {
		out[filepath.Join("protocol", name)] = s
	}
	for name, s := range catalogs.Schemas() {
		out[filepath.Join("catalogs", strings.TrimSuffix(name, ".json")+".schema.json")] = s
	}
	reflector := jsonschema.Reflector{DoNotReference: true, Anonymous: true}
	settings := reflector.Reflect(new(tuning.Settings))
	settings.Title = "Player Settings"
	out["settings.schema.json"] = settings
	return out
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
