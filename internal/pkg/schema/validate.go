package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// ValidationError describes a single schema violation.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Validate checks that data is a single JSON value conforming to n.
// Types and required properties are checked by jsonschema.Validate; on top
// of that strings must be non-blank and arrays must respect their item
// bounds. All violations are returned joined.
func (n *Node) Validate(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	if dec.More() {
		return errors.New("decode json: trailing data after top-level value")
	}

	var violations []error
	n.check("$", doc, &violations)

	// jsonschema has no notion of an optional null, so those members are
	// dropped before the whole document goes through it.
	n.dropNulls(doc)
	if len(violations) == 0 && !jsonschema.Validate(n.def, doc) {
		violations = append(violations, &ValidationError{Path: "$", Reason: "does not match the response schema"})
	}

	return errors.Join(violations...)
}

func (n *Node) check(path string, value any, violations *[]error) {
	fail := func(format string, args ...any) {
		*violations = append(*violations, &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)})
	}

	if value == nil {
		if !n.Nullable {
			fail("must not be null")
		}
		return
	}

	switch n.Kind {
	case KindObject:
		obj, ok := value.(map[string]any)
		if !ok {
			fail("expected object, got %s", typeName(value))
			return
		}
		for _, prop := range n.Properties {
			child, present := obj[prop.Name]
			if !present {
				if prop.Required {
					*violations = append(*violations, &ValidationError{
						Path:   path + "." + prop.Name,
						Reason: "required property is missing",
					})
				}
				continue
			}
			prop.Schema.check(path+"."+prop.Name, child, violations)
		}

	case KindArray:
		arr, ok := value.([]any)
		if !ok {
			fail("expected array, got %s", typeName(value))
			return
		}
		if n.MinItems != nil && len(arr) < *n.MinItems {
			fail("expected at least %d items, got %d", *n.MinItems, len(arr))
		}
		if n.MaxItems != nil && len(arr) > *n.MaxItems {
			fail("expected at most %d items, got %d", *n.MaxItems, len(arr))
		}
		for i, item := range arr {
			n.Items.check(fmt.Sprintf("%s[%d]", path, i), item, violations)
		}

	default:
		if !jsonschema.Validate(n.def, value) {
			fail("expected %s, got %s", n.Kind, typeName(value))
			return
		}
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			fail("must not be blank")
		}
	}
}

// dropNulls removes null members whose property is nullable.
func (n *Node) dropNulls(value any) {
	switch n.Kind {
	case KindObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return
		}
		for _, prop := range n.Properties {
			child, present := obj[prop.Name]
			switch {
			case !present:
			case child == nil && prop.Schema.Nullable:
				delete(obj, prop.Name)
			default:
				prop.Schema.dropNulls(child)
			}
		}
	case KindArray:
		arr, ok := value.([]any)
		if !ok {
			return
		}
		for _, item := range arr {
			n.Items.dropNulls(item)
		}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Decode validates data against n and unmarshals it into v.
func (n *Node) Decode(data []byte, v any) error {
	if err := n.Validate(data); err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}
