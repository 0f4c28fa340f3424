package catalogs

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v5"
)

// DocumentSchema reflects the JSON schema of a catalog file: an array of
// entries shaped like entry.
func DocumentSchema(title string, entry any) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
		Anonymous:                  true,
	}
	entrySchema := reflector.Reflect(entry)
	entrySchema.Version = ""
	return &jsonschema.Schema{
		Version: jsonschema.Version,
		Title:   title,
		Type:    "array",
		Items:   entrySchema,
	}
}

// Schemas lists every catalog file schema by file name.
func Schemas() map[string]*jsonschema.Schema {
	return map[string]*jsonschema.Schema{
		"items.json":   DocumentSchema("Item Catalog", ItemDef{}),
		"recipes.json": DocumentSchema("Recipe Catalog", RecipeDef{}),
		"tiles.json":   DocumentSchema("Tile Break Rules", TileDef{}),
	}
}

func validateDocument(name string, entry any, raw []byte) error {
	schemaJSON, err := json.Marshal(DocumentSchema(name, entry))
	if err != nil {
		return fmt.Errorf("%s: marshal schema: %w", name, err)
	}
	url := "mem://catalogs/" + name
	c := santhosh.NewCompiler()
	if err := c.AddResource(url, bytes.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("%s: schema: %w", name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return fmt.Errorf("%s: compile schema: %w", name, err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
