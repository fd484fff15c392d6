package cgen

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/geappliances/erdgen/internal/codegen/meta"
)

const declarationsTmpl = `/* Auto-generated by erdgen {{.Version}}. Do not edit. */
{{- range .Digests}}
/* {{.Document}}: {{if .Sum}}blake2b-256:{{.Sum}}{{else}}unresolved{{end}} */
{{- end}}

#ifndef ERD_LISTS_H
#define ERD_LISTS_H

#include <stdint.h>

#define ERD_MODE_{{upper .Build.Mode}} 1
#define ERD_POLLING_INTERVAL_MS {{millis .Build}}
#define ERD_CLIENT_ADDRESS {{hex2 .Build.ClientAddress}}
{{- if .Build.DeviceID}}
#define ERD_DEVICE_ID {{cstring .Build.DeviceID}}
{{- end}}
{{- if .Build.Mode.NeedsRegisterLists}}
#define ERD_LISTS_DEGRADED {{if .Degraded}}1{{else}}0{{end}}
{{- end}}

#ifdef __cplusplus
extern "C" {
#endif

#include "tiny_erd.h"
{{if .Build.Mode.NeedsRegisterLists}}
/* Registers every appliance supports */
extern const tiny_erd_t commonErds[];
extern const uint16_t commonErdCount;

/* Energy and diagnostics registers, shared by all appliance types */
extern const tiny_erd_t energyErds[];
extern const uint16_t energyErdCount;

/* Polled when commonErdCount is 0 */
extern const tiny_erd_t minimalErds[];
extern const uint16_t minimalErdCount;

typedef struct {
  tiny_erd_t series;
  const tiny_erd_t* erds;
  uint16_t count;
} erd_series_list_t;

/* Per-series register lists of a feature API; NULL with *count = 0 when unknown */
const erd_series_list_t* erd_feature_series(const char* featureKey, uint16_t* count);
{{end}}
/* Name of an appliance type value, "{{defaultName}}" when unmapped */
const char* appliance_type_to_string(uint8_t applianceType);

#ifdef __cplusplus
}
#endif

#endif /* ERD_LISTS_H */
`

// RenderDeclarations renders the header with the extern declarations.
func RenderDeclarations(md *meta.Metadata) ([]byte, error) {
	return render("declarations", declarationsTmpl, md)
}

func render(name, tmpl string, md *meta.Metadata) ([]byte, error) {
	t, err := template.New(name).Funcs(tplFuncs()).Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parse %s tmpl: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, md); err != nil {
		return nil, fmt.Errorf("exec %s tmpl: %w", name, err)
	}
	return buf.Bytes(), nil
}
