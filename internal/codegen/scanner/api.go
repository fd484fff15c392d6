package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/geappliances/erdgen/internal/codegen/erd"
	"github.com/geappliances/erdgen/internal/codegen/source"
)

// RegisterSchema holds the registers of the common section and of every
// feature API. Each set is the union over all schema versions.
type RegisterSchema struct {
	Common   erd.Set
	Features map[string]erd.Set
}

// EmptyRegisterSchema is used when the appliance API is unavailable.
func EmptyRegisterSchema() *RegisterSchema {
	return &RegisterSchema{Common: erd.Set{}, Features: map[string]erd.Set{}}
}

type erdRef struct {
	ERD string `json:"erd"`
}

type subFeature struct {
	Required []erdRef `json:"required"`
	Optional []erdRef `json:"optional"`
}

type apiVersion struct {
	Required []erdRef    `json:"required"`
	Optional []erdRef    `json:"optional"`
	Features []subFeature `json:"features"`
}

type apiSection struct {
	Name     string                `json:"name"`
	Versions map[string]apiVersion `json:"versions"`
}

// ParseRegisterSchema reads the appliance API document. The common set takes
// the required registers of every version and sub-feature; feature sets take
// both required and optional ones. A feature that does not decode is skipped.
func ParseRegisterSchema(data []byte, logger *slog.Logger) (*RegisterSchema, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var doc struct {
		Common      json.RawMessage            `json:"common"`
		FeatureAPIs map[string]json.RawMessage `json:"featureApis"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStructure, err)
	}
	if doc.Common == nil && doc.FeatureAPIs == nil {
		return nil, fmt.Errorf("%w: neither common nor featureApis present", ErrStructure)
	}

	schema := EmptyRegisterSchema()
	skipped := 0

	if doc.Common != nil {
		var section apiSection
		if err := json.Unmarshal(doc.Common, &section); err != nil {
			logger.Warn("Ignoring malformed common section", "error", err)
		} else {
			for _, v := range section.Versions {
				skipped += addRefs(schema.Common, v.Required)
				for _, f := range v.Features {
					skipped += addRefs(schema.Common, f.Required)
				}
			}
		}
	} else {
		logger.Warn("Appliance API has no common section")
	}

	for key, raw := range doc.FeatureAPIs {
		var section apiSection
		if err := json.Unmarshal(raw, &section); err != nil {
			logger.Warn("Ignoring malformed feature API", "feature", key, "error", err)
			continue
		}
		set := erd.Set{}
		for _, v := range section.Versions {
			skipped += addRefs(set, v.Required)
			skipped += addRefs(set, v.Optional)
			for _, f := range v.Features {
				skipped += addRefs(set, f.Required)
				skipped += addRefs(set, f.Optional)
			}
		}
		schema.Features[key] = set
	}

	if skipped > 0 {
		logger.Warn("Skipped malformed register identifiers", "count", skipped)
	}
	return schema, nil
}

func addRefs(s erd.Set, refs []erdRef) (skipped int) {
	for _, ref := range refs {
		e, err := erd.Parse(ref.ERD)
		if err != nil {
			skipped++
			continue
		}
		s.Add(e)
	}
	return skipped
}

// LoadRegisterSchema resolves the appliance API and extracts its register
// lists. It never fails: on any problem it logs and returns an empty schema
// with ok set to false.
func LoadRegisterSchema(ctx context.Context, r Resolver, logger *slog.Logger) (schema *RegisterSchema, res *source.Result, ok bool) {
	res, err := r.Resolve(ctx, source.ApplianceAPI)
	if err != nil {
		logger.Error("Appliance API unavailable, no polling lists", "error", err)
		return EmptyRegisterSchema(), nil, false
	}

	schema, err = ParseRegisterSchema(res.Data, logger)
	if err != nil {
		logger.Warn("Appliance API unusable, no polling lists", "source", res.Source.Location, "error", err)
		return EmptyRegisterSchema(), res, false
	}

	logger.Info("Found register lists", "common", len(schema.Common), "features", len(schema.Features))
	return schema, res, true
}
