package cgen

import (
	"fmt"

	"github.com/geappliances/erdgen/internal/codegen/meta"
)

// Artifacts are the two rendered blocks. They are always rendered together so
// the definitions match the declarations.
type Artifacts struct {
	Declarations []byte
	Definitions  []byte
}

// Generate renders the declarations header and the definitions source unit.
func Generate(md *meta.Metadata) (*Artifacts, error) {
	if md.Build.HeaderName == "" {
		return nil, fmt.Errorf("header name not set")
	}
	decl, err := RenderDeclarations(md)
	if err != nil {
		return nil, err
	}
	def, err := RenderDefinitions(md)
	if err != nil {
		return nil, err
	}
	return &Artifacts{Declarations: decl, Definitions: def}, nil
}
