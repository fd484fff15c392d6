package generator

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"

	"github.com/geappliances/erdgen/internal/codegen/common"
	"github.com/geappliances/erdgen/internal/codegen/erd"
	cgen "github.com/geappliances/erdgen/internal/codegen/generator/c"
	"github.com/geappliances/erdgen/internal/codegen/meta"
	"github.com/geappliances/erdgen/internal/codegen/scanner"
	"github.com/geappliances/erdgen/internal/codegen/source"
)

// Config selects what is generated and where it goes.
type Config struct {
	OutputDir  string
	HeaderName string
	SourceName string
	Build      meta.Build
}

type Generator struct {
	cfg      Config
	resolver scanner.Resolver
	logger   *slog.Logger
}

func New(cfg Config, resolver scanner.Resolver, logger *slog.Logger) *Generator {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "erd_lists.h"
	}
	if cfg.SourceName == "" {
		cfg.SourceName = "erd_lists.cpp"
	}
	cfg.Build.HeaderName = cfg.HeaderName
	return &Generator{cfg: cfg, resolver: resolver, logger: logger}
}

// HeaderPath is where the declarations are written.
func (g *Generator) HeaderPath() string { return filepath.Join(g.cfg.OutputDir, g.cfg.HeaderName) }

// SourcePath is where the definitions are written.
func (g *Generator) SourcePath() string { return filepath.Join(g.cfg.OutputDir, g.cfg.SourceName) }

// Scan resolves and parses the metadata documents. It never fails; missing
// data is replaced by defaults and reported through the logger.
func (g *Generator) Scan(ctx context.Context) *meta.Metadata {
	version, err := common.GetVersion()
	if err != nil {
		g.logger.Warn("Invalid build version", "error", err)
		version = "unknown"
	}

	md := &meta.Metadata{
		Build:   g.cfg.Build,
		Version: version,
	}

	g.logger.Debug("Scanning appliance types")
	types, typesRes, typesOK := scanner.LoadApplianceTypes(ctx, g.resolver, g.logger)
	md.ApplianceTypes = types
	md.Digests = append(md.Digests, digestOf(source.ERDDefinitions, typesRes))
	degraded := !typesOK

	if g.cfg.Build.Mode.NeedsRegisterLists() {
		g.logger.Debug("Scanning register lists", "mode", g.cfg.Build.Mode)
		schema, apiRes, ok := scanner.LoadRegisterSchema(ctx, g.resolver, g.logger)
		md.Digests = append(md.Digests, digestOf(source.ApplianceAPI, apiRes))
		md.Degraded = !ok
		degraded = degraded || !ok
		addRegisterLists(md, schema)
		g.logger.Info("Categorized registers",
			"common", len(md.Common),
			"energy", len(md.Energy),
			"features", len(md.Features))
	}

	for _, d := range md.Digests {
		if d.Sum != "" {
			g.logger.Info("Input document", "document", d.Document, "from", d.Source.Description, "location", d.Source.Location)
		}
	}

	if degraded {
		g.logger.Warn("Generating with defaults, metadata incomplete")
	} else {
		g.logger.Info("Generating with full metadata")
	}
	return md
}

// addRegisterLists splits the schema into the common list, the shared energy
// list and per-feature series lists. Features are ordered by key and get
// unique identifiers.
func addRegisterLists(md *meta.Metadata, schema *scanner.RegisterSchema) {
	md.Common = schema.Common.Sorted()
	md.Energy = erd.SplitEnergy(schema.Features).Sorted()
	md.Minimal = []erd.ERD{erd.ApplianceType}

	taken := map[string]bool{}
	for _, key := range common.SortedKeys(schema.Features) {
		groups := erd.FeatureGroups(schema.Features[key])
		if len(groups) == 0 {
			continue
		}
		base := common.Identifier(key)
		ident := base
		for n := 2; taken[ident]; n++ {
			ident = fmt.Sprintf("%s%d", base, n)
		}
		taken[ident] = true
		md.Features = append(md.Features, meta.Feature{Key: key, Ident: ident, Groups: groups})
	}
}

func digestOf(doc source.Document, res *source.Result) meta.Digest {
	d := meta.Digest{Document: doc.Name}
	if res != nil {
		sum := blake2b.Sum256(res.Data)
		d.Sum = hex.EncodeToString(sum[:])
		d.Source = res.Source
	}
	return d
}

// Render turns scanned metadata into the two artifacts.
func (g *Generator) Render(md *meta.Metadata) (*cgen.Artifacts, error) {
	return cgen.Generate(md)
}

// Write stores the artifacts. Files whose content is unchanged are left
// untouched so the firmware build does not recompile them.
func (g *Generator) Write(a *cgen.Artifacts) error {
	if err := os.MkdirAll(g.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, f := range []struct {
		path string
		data []byte
	}{
		{g.HeaderPath(), a.Declarations},
		{g.SourcePath(), a.Definitions},
	} {
		written, err := writeIfChanged(f.path, f.data)
		if err != nil {
			return err
		}
		if written {
			g.logger.Info("Generated file", "file", f.path)
		} else {
			g.logger.Debug("File up to date", "file", f.path)
		}
	}
	return nil
}

// Stale returns the artifact paths whose content on disk differs from a.
func (g *Generator) Stale(a *cgen.Artifacts) ([]string, error) {
	var stale []string
	for _, f := range []struct {
		path string
		data []byte
	}{
		{g.HeaderPath(), a.Declarations},
		{g.SourcePath(), a.Definitions},
	} {
		existing, err := os.ReadFile(f.path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", f.path, err)
		}
		if err != nil || !bytes.Equal(existing, f.data) {
			stale = append(stale, f.path)
		}
	}
	return stale, nil
}

// Run scans, renders and writes in one step.
func (g *Generator) Run(ctx context.Context) error {
	md := g.Scan(ctx)
	a, err := g.Render(md)
	if err != nil {
		return err
	}
	return g.Write(a)
}

func writeIfChanged(path string, data []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return false, fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return false, fmt.Errorf("chmod %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, fmt.Errorf("replace %s: %w", path, err)
	}
	return true, nil
}
