// Package schema derives a response schema from Go struct types and validates
// raw JSON documents against it.
//
// The object tree comes from go-openai's jsonschema reflector. Tags it does
// not know are layered on top:
//
//	json:"name"          property name (fields tagged "-" are skipped)
//	desc:"..."           property description sent to the provider
//	schema:"nullable"    property may be absent or null
//	schema:"len=N"       array must have exactly N items
//	schema:"min=N,max=M" array item bounds (arrays default to min=1)
package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
)

type Kind string

const (
	KindObject  Kind = Kind(jsonschema.Object)
	KindArray   Kind = Kind(jsonschema.Array)
	KindString  Kind = Kind(jsonschema.String)
	KindNumber  Kind = Kind(jsonschema.Number)
	KindInteger Kind = Kind(jsonschema.Integer)
	KindBoolean Kind = Kind(jsonschema.Boolean)
)

const defsPrefix = "#/$defs/"

// Node describes one value in a document tree.
type Node struct {
	Kind        Kind
	Description string
	Nullable    bool
	Properties  []Property // object only, in declaration order
	Items       *Node      // array only
	MinItems    *int
	MaxItems    *int

	def jsonschema.Definition // self-contained, no $ref
}

// Property is a named member of an object node.
type Property struct {
	Name     string
	Required bool
	Schema   *Node
}

// Required returns the names of required properties in declaration order.
func (n *Node) Required() []string {
	var names []string
	for _, p := range n.Properties {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// Property looks up a property by name.
func (n *Node) Property(name string) (Property, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Definition returns the JSON schema of n.
func (n *Node) Definition() jsonschema.Definition {
	return n.def
}

// Of builds the schema for the dynamic type of v.
func Of(v any) (*Node, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("schema of nil value")
	}

	root, err := jsonschema.GenerateSchemaForType(v)
	if err != nil {
		return nil, fmt.Errorf("generate schema for %s: %w", t, err)
	}

	def, err := inline(*root, root.Defs, map[string]bool{})
	if err != nil {
		return nil, err
	}
	return build(t, def)
}

// MustOf is like Of but panics on unsupported types.
// Intended for package-level schema variables.
func MustOf(v any) *Node {
	n, err := Of(v)
	if err != nil {
		panic(err)
	}
	return n
}

// inline replaces every $ref with a copy of its definition.
func inline(d jsonschema.Definition, defs map[string]jsonschema.Definition, seen map[string]bool) (jsonschema.Definition, error) {
	if d.Ref != "" {
		key := strings.TrimPrefix(d.Ref, defsPrefix)
		if seen[key] {
			return d, fmt.Errorf("recursive type %s is not supported", key)
		}
		target, ok := defs[key]
		if !ok {
			return d, fmt.Errorf("unresolved reference %s", d.Ref)
		}
		seen[key] = true
		defer delete(seen, key)
		return inline(target, defs, seen)
	}

	d.Defs = nil
	if d.Properties != nil {
		props := make(map[string]jsonschema.Definition, len(d.Properties))
		for name, p := range d.Properties {
			resolved, err := inline(p, defs, seen)
			if err != nil {
				return d, fmt.Errorf("%s: %w", name, err)
			}
			props[name] = resolved
		}
		d.Properties = props
	}
	if d.Items != nil {
		items, err := inline(*d.Items, defs, seen)
		if err != nil {
			return d, err
		}
		d.Items = &items
	}
	return d, nil
}

// build walks t next to its generated definition, applying desc and schema
// tags and keeping struct field order.
func build(t reflect.Type, d jsonschema.Definition) (*Node, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	n := &Node{Kind: Kind(d.Type), Description: d.Description}

	switch t.Kind() {
	case reflect.Struct:
		props := make(map[string]jsonschema.Definition, len(d.Properties))
		var required []string

		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			name, ok := fieldName(field)
			if !ok {
				continue
			}
			childDef, ok := d.Properties[name]
			if !ok {
				return nil, fmt.Errorf("field %s: missing from generated schema", field.Name)
			}

			child, err := build(field.Type, childDef)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
			if desc := field.Tag.Get("desc"); desc != "" {
				child.Description = desc
			}

			opts, err := parseOptions(field.Tag.Get("schema"))
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
			if err := opts.apply(child); err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
			child.def.Description = child.Description
			child.def.Nullable = child.Nullable

			n.Properties = append(n.Properties, Property{
				Name:     name,
				Required: !opts.nullable,
				Schema:   child,
			})
			props[name] = child.def
			if !opts.nullable {
				required = append(required, name)
			}
		}
		d.Properties = props
		d.Required = required

	case reflect.Slice, reflect.Array:
		if d.Items == nil {
			return nil, fmt.Errorf("array %s has no item schema", t)
		}
		items, err := build(t.Elem(), *d.Items)
		if err != nil {
			return nil, err
		}
		one := 1
		n.Items = items
		n.MinItems = &one
		d.Items = &items.def
	}

	n.def = d
	return n, nil
}

// fieldName mirrors the reflector's naming of exported fields.
func fieldName(field reflect.StructField) (string, bool) {
	if !field.IsExported() {
		return "", false
	}
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	return name, true
}

type options struct {
	nullable bool
	min      *int
	max      *int
}

func parseOptions(tag string) (options, error) {
	var opts options
	if tag == "" {
		return opts, nil
	}

	for _, part := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(strings.TrimSpace(part), "=")
		switch key {
		case "nullable":
			opts.nullable = true
		case "len", "min", "max":
			if !hasValue {
				return opts, fmt.Errorf("schema option %q needs a value", key)
			}
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return opts, fmt.Errorf("schema option %q: invalid value %q", key, value)
			}
			switch key {
			case "len":
				opts.min, opts.max = &n, &n
			case "min":
				opts.min = &n
			case "max":
				opts.max = &n
			}
		default:
			return opts, fmt.Errorf("unknown schema option %q", key)
		}
	}

	return opts, nil
}

func (o options) apply(n *Node) error {
	n.Nullable = o.nullable
	if o.min == nil && o.max == nil {
		return nil
	}
	if n.Kind != KindArray {
		return fmt.Errorf("item bounds on non-array kind %s", n.Kind)
	}
	if o.min != nil {
		n.MinItems = o.min
	}
	if o.max != nil {
		n.MaxItems = o.max
	}
	if n.MinItems != nil && n.MaxItems != nil && *n.MinItems > *n.MaxItems {
		return fmt.Errorf("min items %d exceeds max items %d", *n.MinItems, *n.MaxItems)
	}
	return nil
}
