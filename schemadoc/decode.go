// Package schemadoc decodes JSON or YAML schema documents into the tree the
// generator consumes, capturing each object's key order along the way: Go
// maps are unordered, and generated property order must follow the schema's
// declared order.
package schemadoc

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	traitgen "github.com/reoring/traitgen"
)

// DecodeJSON parses a JSON schema document.
func DecodeJSON(data []byte) (*traitgen.Document, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	order := map[string][]string{}
	v, err := decodeValue(dec, "", order)
	if err != nil {
		return nil, fmt.Errorf("schemadoc: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("schemadoc: schema document must be a JSON object")
	}
	return traitgen.NewDocumentWithOrder(m, order), nil
}

// DecodeYAML parses a YAML schema document (single document only).
func DecodeYAML(data []byte) (*traitgen.Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("schemadoc: %w", err)
	}
	order := map[string][]string{}
	v, err := yamlValue(&root, "", order)
	if err != nil {
		return nil, fmt.Errorf("schemadoc: %w", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("schemadoc: schema document must be a YAML mapping")
	}
	return traitgen.NewDocumentWithOrder(m, order), nil
}

// Decode sniffs the format: JSON when the first non-space byte opens an
// object, YAML otherwise.
func Decode(data []byte) (*traitgen.Document, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return DecodeJSON(data)
	}
	return DecodeYAML(data)
}

// ---- JSON token walk ----

func decodeValue(dec *j.Decoder, ptr string, order map[string][]string) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeFromToken(dec, tok, ptr, order)
}

func decodeFromToken(dec *j.Decoder, tok any, ptr string, order map[string][]string) (any, error) {
	delim, ok := tok.(j.Delim)
	if !ok {
		return tok, nil // string, float64, bool or nil
	}
	switch delim {
	case '{':
		m := map[string]any{}
		var keys []string
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is not a string: %v", keyTok)
			}
			v, err := decodeValue(dec, ptr+"/"+escapeSeg(key), order)
			if err != nil {
				return nil, err
			}
			if _, dup := m[key]; !dup {
				keys = append(keys, key)
			}
			m[key] = v
		}
		if _, err := dec.Token(); err != nil { // consume '}'
			return nil, err
		}
		order[ptr] = keys
		return m, nil
	case '[':
		var arr []any
		for dec.More() {
			v, err := decodeValue(dec, ptr+"/"+strconv.Itoa(len(arr)), order)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil { // consume ']'
			return nil, err
		}
		if arr == nil {
			arr = []any{}
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// ---- YAML node walk ----

func yamlValue(n *yaml.Node, ptr string, order map[string][]string) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlValue(n.Content[0], ptr, order)
	case yaml.AliasNode:
		return yamlValue(n.Alias, ptr, order)
	case yaml.MappingNode:
		m := map[string]any{}
		var keys []string
		for i := 0; i+1 < len(n.Content); i += 2 {
			var key string
			if err := n.Content[i].Decode(&key); err != nil {
				return nil, err
			}
			v, err := yamlValue(n.Content[i+1], ptr+"/"+escapeSeg(key), order)
			if err != nil {
				return nil, err
			}
			if _, dup := m[key]; !dup {
				keys = append(keys, key)
			}
			m[key] = v
		}
		order[ptr] = keys
		return m, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for i, c := range n.Content {
			v, err := yamlValue(c, ptr+"/"+strconv.Itoa(i), order)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	default: // scalar
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// escapeSeg escapes '~' -> '~0', '/' -> '~1' per RFC6901.
func escapeSeg(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}
