package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v5"
)

var inbound = map[string]any{
	TypeHello:    HelloMsg{},
	TypeInput:    InputMsg{},
	TypeCommand:  CommandMsg{},
	TypeSettings: SettingsMsg{},
}

// Schema reflects the JSON schema of one client message type, or nil for a
// type the server does not accept.
func Schema(msgType string) *jsonschema.Schema {
	v, ok := inbound[msgType]
	if !ok {
		return nil
	}
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
		Anonymous:                  true,
	}
	s := reflector.Reflect(v)
	s.Title = msgType
	return s
}

// Schemas lists the client message schemas by file name.
func Schemas() map[string]*jsonschema.Schema {
	out := map[string]*jsonschema.Schema{}
	for t := range inbound {
		out[schemaFile(t)] = Schema(t)
	}
	return out
}

func schemaFile(msgType string) string {
	return strings.ToLower(msgType) + ".schema.json"
}

// Validator checks raw client messages against the reflected schemas.
type Validator struct {
	schemas map[string]*santhosh.Schema
}

func NewValidator() (*Validator, error) {
	v := &Validator{schemas: map[string]*santhosh.Schema{}}
	c := santhosh.NewCompiler()
	for t := range inbound {
		b, err := json.Marshal(Schema(t))
		if err != nil {
			return nil, fmt.Errorf("%s: marshal schema: %w", t, err)
		}
		url := "mem://protocol/" + schemaFile(t)
		if err := c.AddResource(url, bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("%s: schema: %w", t, err)
		}
		s, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("%s: compile schema: %w", t, err)
		}
		v.schemas[t] = s
	}
	return v, nil
}

// Validate routes raw by its type and checks it. Unreadable frames, unknown
// types and version mismatches are ErrProto; schema violations are
// ErrBadRequest.
func (v *Validator) Validate(raw []byte) (BaseMessage, error) {
	base, err := DecodeBase(raw)
	if err != nil {
		return base, Errorf(CodeProto, "unreadable message: %v", err)
	}
	s, ok := v.schemas[base.Type]
	if !ok {
		return base, Errorf(CodeProto, "unexpected message type %q", base.Type)
	}
	if base.ProtocolVersion != Version {
		return base, Errorf(CodeProto, "bad protocol_version %q", base.ProtocolVersion)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return base, Errorf(CodeProto, "unreadable message: %v", err)
	}
	if err := s.Validate(doc); err != nil {
		return base, Errorf(CodeBadRequest, "%s: %v", base.Type, err)
	}
	return base, nil
}
