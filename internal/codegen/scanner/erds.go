package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/geappliances/erdgen/internal/codegen/common"
	"github.com/geappliances/erdgen/internal/codegen/erd"
	"github.com/geappliances/erdgen/internal/codegen/source"
)

// DefaultApplianceName is returned for appliance types without a mapping.
const DefaultApplianceName = "Unknown"

// ApplianceTypes maps an appliance type value to its sanitized name.
type ApplianceTypes map[uint8]string

// DefaultApplianceTypes is used when the ERD definitions are unavailable.
func DefaultApplianceTypes() ApplianceTypes {
	return ApplianceTypes{0: DefaultApplianceName, 255: DefaultApplianceName}
}

type erdDescriptor struct {
	ID   string            `json:"id"`
	Data []json.RawMessage `json:"data"`
}

type erdField struct {
	Type   string                     `json:"type"`
	Values map[string]json.RawMessage `json:"values"`
}

// ParseApplianceTypes reads the appliance type enumeration from an ERD
// definitions document. Entries whose key is not a canonical decimal 0-255
// ("7", not "07") or whose label is not a string are skipped. It fails with ErrStructure when the
// appliance type register or its enum cannot be found.
func ParseApplianceTypes(data []byte, logger *slog.Logger) (ApplianceTypes, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var doc struct {
		ERDs []json.RawMessage `json:"erds"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: erds: %v", ErrStructure, err)
	}

	for _, raw := range doc.ERDs {
		var d erdDescriptor
		if err := json.Unmarshal(raw, &d); err != nil {
			continue
		}
		id, err := erd.Parse(d.ID)
		if err != nil || id != erd.ApplianceType {
			continue
		}

		for _, rawField := range d.Data {
			var f erdField
			if err := json.Unmarshal(rawField, &f); err != nil || f.Type != "enum" {
				continue
			}
			return enumValues(f.Values, logger), nil
		}
		return nil, fmt.Errorf("%w: appliance type register %s has no enum field", ErrStructure, erd.ApplianceType)
	}

	return nil, fmt.Errorf("%w: appliance type register %s not found", ErrStructure, erd.ApplianceType)
}

func enumValues(values map[string]json.RawMessage, logger *slog.Logger) ApplianceTypes {
	out := make(ApplianceTypes, len(values))
	for key, raw := range values {
		n, err := strconv.ParseUint(key, 10, 8)
		if err != nil || strconv.FormatUint(n, 10) != key {
			logger.Warn("Skipping appliance type with invalid key", "key", key)
			continue
		}
		var label string
		if err := json.Unmarshal(raw, &label); err != nil {
			logger.Warn("Skipping appliance type with non-string label", "key", key)
			continue
		}
		out[uint8(n)] = common.Sanitize(label)
	}
	return out
}

// LoadApplianceTypes resolves the ERD definitions and extracts the appliance
// types. It never fails: on any problem it logs and returns
// DefaultApplianceTypes with ok set to false. res is nil only when the
// document could not be resolved.
func LoadApplianceTypes(ctx context.Context, r Resolver, logger *slog.Logger) (types ApplianceTypes, res *source.Result, ok bool) {
	res, err := r.Resolve(ctx, source.ERDDefinitions)
	if err != nil {
		logger.Error("ERD definitions unavailable, using default appliance types", "error", err)
		return DefaultApplianceTypes(), nil, false
	}

	types, err = ParseApplianceTypes(res.Data, logger)
	if err != nil {
		logger.Warn("Appliance type enum missing, using default appliance types", "source", res.Source.Location, "error", err)
		return DefaultApplianceTypes(), res, false
	}
	if len(types) == 0 {
		logger.Warn("Appliance type enum is empty, using default appliance types", "source", res.Source.Location)
		return DefaultApplianceTypes(), res, false
	}

	logger.Info("Found appliance types", "count", len(types))
	return types, res, true
}
