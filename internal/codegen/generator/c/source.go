package cgen

import "github.com/geappliances/erdgen/internal/codegen/meta"

const definitionsTmpl = `/* Auto-generated by erdgen {{.Version}}. Do not edit. */
{{- range .Digests}}
/* {{.Document}}: {{if .Sum}}blake2b-256:{{.Sum}}{{else}}unresolved{{end}} */
{{- end}}

#include <string.h>
#include {{cstring .Build.HeaderName}}
{{- if .Build.Mode.NeedsRegisterLists}}

const tiny_erd_t commonErds[] = {
{{erdValues .Common}}
};
const uint16_t commonErdCount = {{len .Common}};

const tiny_erd_t energyErds[] = {
{{erdValues .Energy}}
};
const uint16_t energyErdCount = {{len .Energy}};

const tiny_erd_t minimalErds[] = {
{{erdValues .Minimal}}
};
const uint16_t minimalErdCount = {{len .Minimal}};
{{- if .Features}}

namespace {
{{- range $f := .Features}}
{{- range $g := $f.Groups}}

const tiny_erd_t {{seriesArray $f $g}}[] = {
{{erdValues $g.Members}}
};
const uint16_t {{seriesCount $f $g}} = {{len $g.Members}};
{{- end}}

const erd_series_list_t {{seriesIndex $f}}[] = {
{{- range $g := $f.Groups}}
  { {{hex4 $g.Series}}, {{seriesArray $f $g}}, {{len $g.Members}} },
{{- end}}
};
{{- end}}

struct feature_series_t {
  const char* key;
  const erd_series_list_t* series;
  uint16_t count;
};

const feature_series_t featureSeries[] = {
{{- range .Features}}
  { {{cstring .Key}}, {{seriesIndex .}}, {{len .Groups}} },
{{- end}}
};
} // namespace
{{- end}}

const erd_series_list_t* erd_feature_series(const char* featureKey, uint16_t* count)
{
{{- if .Features}}
  for(const feature_series_t& entry : featureSeries) {
    if(strcmp(entry.key, featureKey) == 0) {
      *count = entry.count;
      return entry.series;
    }
  }
{{- else}}
  (void)featureKey;
{{- end}}
  *count = 0;
  return nullptr;
}
{{- end}}

const char* appliance_type_to_string(uint8_t applianceType)
{
  switch(applianceType) {
{{lookupCases .ApplianceTypes}}    default: return {{cstring defaultName}};
  }
}
`

// RenderDefinitions renders the source unit defining everything the
// declarations announce.
func RenderDefinitions(md *meta.Metadata) ([]byte, error) {
	return render("definitions", definitionsTmpl, md)
}
