package generator_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geappliances/erdgen/internal/codegen/generator"
	"github.com/geappliances/erdgen/internal/codegen/meta"
	"github.com/geappliances/erdgen/internal/codegen/source"
	htesting "github.com/geappliances/erdgen/internal/testing"
)

const erdDefinitions = `{"erds":[{"id":"0x0008","data":[{"type":"enum","values":{"0":"Unknown","1":"Top Load","6":"Dishwasher"}}]}]}`

const applianceAPI = `{
  "common": {"versions": {"1": {"required": [{"erd": "0x0001"}, {"erd": "0x0002"}]}}},
  "featureApis": {
    "dishwasher": {"name": "Dishwasher", "versions": {"1": {
      "required": [{"erd": "0x1003"}, {"erd": "0x0035"}],
      "features": [{"optional": [{"erd": "0xD010"}]}]
    }}},
    "dishWasher": {"versions": {"1": {"required": [{"erd": "0x3001"}, {"erd": "0x3000"}, {"erd": "0x4000"}]}}},
    "dish-washer": {"versions": {"1": {"required": [{"erd": "0x5000"}]}}},
    "commonOnly": {"versions": {"1": {"required": [{"erd": "0x0001"}]}}}
  }
}`

func newGenerator(t *testing.T, mode meta.Mode, docs htesting.FakeResolver) (*generator.Generator, *htesting.LogBuffer) {
	t.Helper()
	logger, logs := htesting.CaptureLogger(t)
	g := generator.New(generator.Config{
		OutputDir: t.TempDir(),
		Build:     meta.Build{Mode: mode, PollingInterval: time.Second},
	}, docs, logger)
	return g, logs
}

func fullDocs() htesting.FakeResolver {
	return htesting.FakeResolver{
		source.ERDDefinitions.Name: erdDefinitions,
		source.ApplianceAPI.Name:   applianceAPI,
	}
}

func TestScanFullMetadata(t *testing.T) {
	g, logs := newGenerator(t, meta.ModePoll, fullDocs())
	md := g.Scan(context.Background())

	assert.Equal(t, "TopLoad", md.ApplianceTypes[1])
	assert.Equal(t, "0x0001", md.Common[0].String())
	assert.Len(t, md.Common, 2)
	require.Len(t, md.Energy, 1)
	assert.Equal(t, "0xD010", md.Energy[0].String())
	assert.False(t, md.Degraded)

	var keys, idents []string
	for _, f := range md.Features {
		keys = append(keys, f.Key)
		idents = append(idents, f.Ident)
	}
	assert.Equal(t, []string{"dish-washer", "dishWasher", "dishwasher"}, keys)
	assert.Equal(t, []string{"dishWasher", "dishWasher2", "dishwasher"}, idents)

	dishwasher := md.Features[2]
	require.Len(t, dishwasher.Groups, 1)
	assert.Equal(t, "0x1000", dishwasher.Groups[0].Series.String())

	require.Len(t, md.Digests, 2)
	assert.Len(t, md.Digests[0].Sum, 64)
	assert.Equal(t, "test", md.Digests[0].Source.Description)
	assert.Contains(t, logs.String(), "Generating with full metadata")
}

func TestRunIsDeterministic(t *testing.T) {
	ctx := context.Background()
	g, _ := newGenerator(t, meta.ModeAuto, fullDocs())

	first, err := g.Render(g.Scan(ctx))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := g.Render(g.Scan(ctx))
		require.NoError(t, err)
		assert.Equal(t, first.Declarations, again.Declarations)
		assert.Equal(t, first.Definitions, again.Definitions)
	}
}

func TestRunWithoutMetadata(t *testing.T) {
	g, logs := newGenerator(t, meta.ModePoll, htesting.FakeResolver{})
	require.NoError(t, g.Run(context.Background()))

	h, err := os.ReadFile(g.HeaderPath())
	require.NoError(t, err)
	c, err := os.ReadFile(g.SourcePath())
	require.NoError(t, err)

	assert.Contains(t, string(h), "#define ERD_LISTS_DEGRADED 1")
	assert.Contains(t, string(c), "const uint16_t commonErdCount = 0;")
	assert.Contains(t, string(c), "const uint16_t energyErdCount = 0;")
	assert.Contains(t, string(c), "const uint16_t minimalErdCount = 1;")
	assert.Contains(t, string(c), "    case 255: return \"Unknown\";\n")
	assert.Contains(t, logs.String(), "Generating with defaults")
	assert.Contains(t, logs.String(), "level=ERROR")
}

func TestMissingTypeEnumIsReportedAsDefaults(t *testing.T) {
	for name, defs := range map[string]string{
		"no registers": `{"erds":[]}`,
		"empty enum":   `{"erds":[{"id":"0x0008","data":[{"type":"enum","values":{}}]}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			g, logs := newGenerator(t, meta.ModePoll, htesting.FakeResolver{
				source.ERDDefinitions.Name: defs,
				source.ApplianceAPI.Name:   applianceAPI,
			})
			md := g.Scan(context.Background())

			assert.Equal(t, "Unknown", md.ApplianceTypes[255])
			assert.False(t, md.Degraded, "register lists are complete")
			assert.Len(t, md.Digests[0].Sum, 64)
			assert.Contains(t, logs.String(), "Generating with defaults, metadata incomplete")
			assert.NotContains(t, logs.String(), "Generating with full metadata")
		})
	}
}

func TestSubscribeModeSkipsApplianceAPI(t *testing.T) {
	docs := fullDocs()
	g, logs := newGenerator(t, meta.ModeSubscribe, docs)
	md := g.Scan(context.Background())
	assert.Empty(t, md.Common)
	assert.Len(t, md.Digests, 1)
	assert.NotContains(t, logs.String(), "Scanning register lists")
}

func TestWriteAndStale(t *testing.T) {
	ctx := context.Background()
	g, logs := newGenerator(t, meta.ModePoll, fullDocs())
	a, err := g.Render(g.Scan(ctx))
	require.NoError(t, err)

	stale, err := g.Stale(a)
	require.NoError(t, err)
	assert.Equal(t, []string{g.HeaderPath(), g.SourcePath()}, stale)

	require.NoError(t, g.Write(a))
	stale, err = g.Stale(a)
	require.NoError(t, err)
	assert.Empty(t, stale)

	logs.Reset()
	require.NoError(t, g.Write(a))
	assert.Contains(t, logs.String(), "File up to date")

	require.NoError(t, os.WriteFile(g.SourcePath(), []byte("edited"), 0o644))
	stale, err = g.Stale(a)
	require.NoError(t, err)
	assert.Equal(t, []string{g.SourcePath()}, stale)

	entries, err := os.ReadDir(filepath.Dir(g.HeaderPath()))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
