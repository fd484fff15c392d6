// Package scanner extracts the facts code generation needs from the resolved
// metadata documents: the appliance type enumeration and the common and
// per-feature register lists.
package scanner

import (
	"context"
	"errors"

	"github.com/geappliances/erdgen/internal/codegen/source"
)

// ErrStructure marks a document that parsed but lacks the expected shape.
var ErrStructure = errors.New("unexpected document structure")

// Resolver resolves a metadata document.
type Resolver interface {
	Resolve(ctx context.Context, doc source.Document) (*source.Result, error)
}
