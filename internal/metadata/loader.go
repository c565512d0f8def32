package metadata

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// ErrInvalidDump is returned for metadata dumps that fail decoding, schema
// validation or linking.
var ErrInvalidDump = errors.New("invalid metadata dump")

//go:embed schema.json
var dumpSchemaSource string

var dumpSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("metadata-dump.schema.json", dumpSchemaSource)
})

// LoadFile reads one assembly from a YAML or JSON metadata dump.
func LoadFile(path string) (*Assembly, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata %s: %w", path, err)
	}
	asm, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return asm, nil
}

// Load decodes, validates and links one assembly. JSON is accepted as the
// YAML subset it is.
func Load(data []byte) (*Assembly, error) {
	if err := validateDump(data); err != nil {
		return nil, err
	}

	var asm Assembly
	if err := yaml.Unmarshal(data, &asm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}
	if err := asm.Link(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}
	return &asm, nil
}

func validateDump(data []byte) error {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}

	// The validator expects plain JSON values with json.Number numbers.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}

	schema, err := dumpSchema()
	if err != nil {
		return fmt.Errorf("failed to compile metadata schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}
	return nil
}
