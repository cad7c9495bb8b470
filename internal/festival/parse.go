package festival

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed data/festivals_2025.yaml
var defaultData []byte

// Format is the encoding of a festival file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported festival file extension %q (want .yaml, .yml or .toml)", filepath.Ext(path))
}

// file is the document layout shared by both formats:
//
//	festivals:
//	  - date: 2025-10-03
//	    name: Navratri Begins
//	    type: Festival
//
// or in TOML, an array of [[festivals]] tables.
type file struct {
	Festivals []Record `yaml:"festivals" toml:"festivals"`
}

// Parse decodes and validates festival records.
func Parse(data []byte, format Format) ([]Record, error) {
	var f file
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parsing festival YAML: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing festival TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown festival format %q", format)
	}

	for i := range f.Festivals {
		if err := f.Festivals[i].Validate(); err != nil {
			return nil, fmt.Errorf("festival %d (%s): %w", i+1, f.Festivals[i].Name, err)
		}
	}
	return f.Festivals, nil
}

// LoadFile reads a YAML or TOML festival file.
func LoadFile(path string) ([]Record, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading festival file: %w", err)
	}
	return Parse(data, format)
}

// Default returns the built-in 2025 festival list.
func Default() []Record {
	records, err := Parse(defaultData, FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("festival: embedded dataset is invalid: %v", err))
	}
	return records
}

// Load reads path, or returns the built-in list when path is empty.
func Load(path string) ([]Record, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Marshal encodes records in the layout Parse reads.
func Marshal(records []Record, format Format) ([]byte, error) {
	f := file{Festivals: records}
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return nil, fmt.Errorf("encoding festival YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding festival YAML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		data, err := toml.Marshal(f)
		if err != nil {
			return nil, fmt.Errorf("encoding festival TOML: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unknown festival format %q", format)
}
