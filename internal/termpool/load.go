package termpool

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/itpassport.json
var defaultPoolJSON []byte

// DefaultSource is the source label reported for the built-in pool.
const DefaultSource = "builtin:itpassport"

// document is the on-disk shape of a pool file.
type document struct {
	Terms []Entry `json:"terms" yaml:"terms"`
}

// Default returns the built-in IT Passport pool.
func Default() *Pool {
	entries, err := parseJSON(defaultPoolJSON)
	if err != nil {
		panic(fmt.Sprintf("termpool: built-in pool is malformed: %v", err))
	}
	return New(entries)
}

// Load reads a pool file. Files ending in .yaml or .yml are parsed as YAML,
// everything else as JSON. Both accept either {"terms": [...]} or a bare list.
func Load(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read term pool: %w", err)
	}

	var entries []Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		entries, err = parseYAML(data)
	default:
		entries, err = parseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse term pool %s: %w", path, err)
	}
	return New(entries), nil
}

// LoadOrDefault loads path, or returns the built-in pool when path is empty.
// The second return value names where the pool came from.
func LoadOrDefault(path string) (*Pool, string, error) {
	if path == "" {
		return Default(), DefaultSource, nil
	}
	p, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return p, path, nil
}

func parseJSON(data []byte) ([]Entry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []Entry
		if err := decodeJSONStrict(trimmed, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	}

	var doc document
	if err := decodeJSONStrict(trimmed, &doc); err != nil {
		return nil, err
	}
	return doc.Terms, nil
}

func decodeJSONStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return errors.New("parse json: multiple documents are not supported")
		}
		return fmt.Errorf("parse json: %w", err)
	}
	return nil
}

func parseYAML(data []byte) ([]Entry, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		var entries []Entry
		if err := dec.Decode(&entries); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		return entries, nil
	}

	var doc document
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return doc.Terms, nil
}
