package llm

import (
	"github.com/princehaifan/quran-memory-system/internal/pkg/schema"
	"google.golang.org/genai"
)

var genaiTypes = map[schema.Kind]genai.Type{
	schema.KindObject:  genai.TypeObject,
	schema.KindArray:   genai.TypeArray,
	schema.KindString:  genai.TypeString,
	schema.KindNumber:  genai.TypeNumber,
	schema.KindInteger: genai.TypeInteger,
	schema.KindBoolean: genai.TypeBoolean,
}

// ToGenaiSchema converts a reflected schema into the Gemini response schema.
// Property ordering is preserved so the model emits fields in declaration order.
func ToGenaiSchema(n *schema.Node) *genai.Schema {
	if n == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        genaiTypes[n.Kind],
		Description: n.Description,
	}
	if n.Nullable {
		out.Nullable = genai.Ptr(true)
	}

	switch n.Kind {
	case schema.KindObject:
		out.Properties = make(map[string]*genai.Schema, len(n.Properties))
		for _, p := range n.Properties {
			out.Properties[p.Name] = ToGenaiSchema(p.Schema)
			out.PropertyOrdering = append(out.PropertyOrdering, p.Name)
		}
		out.Required = n.Required()
	case schema.KindArray:
		out.Items = ToGenaiSchema(n.Items)
		if n.MinItems != nil {
			out.MinItems = genai.Ptr(int64(*n.MinItems))
		}
		if n.MaxItems != nil {
			out.MaxItems = genai.Ptr(int64(*n.MaxItems))
		}
	}

	return out
}
