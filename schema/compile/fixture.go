package compile

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"

	"github.com/gelflux/sdlc/location"
	"github.com/gelflux/sdlc/schema"
)

// fixtureBatch is the on-disk JSONC shape integration tests load
// batches from, mirroring yammm's own
// adapter/json: a small, purpose-built schema aimed at test fixtures
// rather than a runtime-facing format. It covers exactly the
// declaration shapes scenarios exercise — object types,
// scalar types with optional enum bases, and concrete pointers with an
// optional target — not the full SDL surface.
type fixtureBatch map[string][]fixtureDecl

type fixtureDecl struct {
	Kind     string           `json:"kind"` // "object" or "scalar"
	Name     string           `json:"name"`
	Bases    []string         `json:"bases,omitempty"`
	Abstract bool             `json:"abstract,omitempty"`
	Enum     []string         `json:"enum,omitempty"`
	Pointers []fixturePointer `json:"pointers,omitempty"`
}

type fixturePointer struct {
	Name     string `json:"name"`
	IsLink   bool   `json:"is_link,omitempty"`
	Target   string `json:"target,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// LoadFixture strips JSONC comments via jsonc.ToJSON (yammm's own
// adapter/json/parse.go does the same before decoding) and decodes the
// result into a [Batch] ready for [Compile]. Exported for integration
// tests that load testdata/*.jsonc fixtures.
func LoadFixture(data []byte) (Batch, error) {
	var raw fixtureBatch
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("compile: decode fixture: %w", err)
	}

	batch := Batch{}
	for module, decls := range raw {
		for _, d := range decls {
			node, err := d.toDecl()
			if err != nil {
				return nil, fmt.Errorf("compile: module %q: %w", module, err)
			}
			batch[module] = append(batch[module], node)
		}
	}
	return batch, nil
}

func (d fixtureDecl) toDecl() (schema.DeclNode, error) {
	bases := make([]schema.TypeRefNode, 0, len(d.Bases))
	for _, b := range d.Bases {
		bases = append(bases, *schema.NewTypeRefNode(location.Span{}, "", b))
	}

	switch d.Kind {
	case "object":
		cmds := make([]schema.ASTNode, 0, len(d.Pointers))
		for _, p := range d.Pointers {
			ptr := &schema.CreateConcretePointer{
				Name:     p.Name,
				IsLink:   p.IsLink,
				Required: p.Required,
			}
			if p.Target != "" {
				ptr.Target = *schema.NewTypeRefNode(location.Span{}, "", p.Target)
			}
			cmds = append(cmds, ptr)
		}
		return &schema.CreateObjectType{
			Name:     d.Name,
			Bases:    bases,
			Abstract: d.Abstract,
			Commands: cmds,
		}, nil
	case "scalar":
		if len(d.Enum) > 0 {
			enumBase := schema.NewTypeRefNode(location.Span{}, "", "")
			enumBase.EnumValues = d.Enum
			bases = append(bases, *enumBase)
		}
		return &schema.CreateScalarType{
			Name:     d.Name,
			Bases:    bases,
			Abstract: d.Abstract,
		}, nil
	default:
		return nil, fmt.Errorf("unknown fixture kind %q for %q", d.Kind, d.Name)
	}
}
