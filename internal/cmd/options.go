package cmd

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/geappliances/erdgen/internal/codegen/generator"
	"github.com/geappliances/erdgen/internal/codegen/meta"
	"github.com/geappliances/erdgen/internal/codegen/source"
	"github.com/geappliances/erdgen/internal/configpaths"
)

// ComponentConfig is the bridge configuration baked into the artifacts.
type ComponentConfig struct {
	DeviceID        string        `help:"Device id of the bridge, emitted as ERD_DEVICE_ID when set" env:"ERDGEN_DEVICE_ID"`
	Mode            string        `help:"Bridge operating mode: poll, subscribe or auto" default:"auto" enum:"poll,subscribe,auto" env:"ERDGEN_MODE"`
	PollingInterval time.Duration `help:"Interval between register polls (1s to 1h)" default:"3s" env:"ERDGEN_POLLING_INTERVAL"`
	ClientAddress   string        `help:"GEA address of the bridge, decimal or 0x hex (0 to 255)" default:"0xE4" env:"ERDGEN_CLIENT_ADDRESS"`
}

// RemoteConfig controls the fetch from the public documentation repository.
type RemoteConfig struct {
	RemoteBase   string        `help:"Base URL the metadata documents are fetched from" default:"https://raw.githubusercontent.com/geappliances/public-appliance-api-documentation/main" env:"ERDGEN_REMOTE_BASE"`
	FetchTimeout time.Duration `help:"Timeout of a single remote fetch" default:"10s" env:"ERDGEN_FETCH_TIMEOUT"`
}

// MetadataConfig controls where the metadata documents are looked up.
type MetadataConfig struct {
	MetadataDir string       `help:"Development copy of the documentation repository" default:"lib/public-appliance-api-documentation" env:"ERDGEN_METADATA_DIR"`
	CacheDir    []string     `help:"Extra metadata cache directories, searched before the default caches" env:"ERDGEN_CACHE_DIR"`
	BuildDir    string       `help:"Build directory holding the build-relative cache" default:"." env:"ERDGEN_BUILD_DIR"`
	Remote      RemoteConfig `embed:""`
	Offline     bool         `help:"Never fetch from the network" env:"ERDGEN_OFFLINE"`
}

// Options is shared by the generate and check commands.
type Options struct {
	Component ComponentConfig `embed:""`
	Metadata  MetadataConfig  `embed:""`
	Output    string          `help:"Output directory for the generated files" default:"." env:"ERDGEN_OUTPUT"`
	Header    string          `help:"File name of the declarations header" default:"erd_lists.h" env:"ERDGEN_HEADER"`
	Source    string          `help:"File name of the definitions source unit" default:"erd_lists.cpp" env:"ERDGEN_SOURCE"`
}

func (c ComponentConfig) build() (meta.Build, error) {
	mode, err := meta.ParseMode(c.Mode)
	if err != nil {
		return meta.Build{}, err
	}
	addr, err := strconv.ParseInt(strings.TrimSpace(c.ClientAddress), 0, 16)
	if err != nil {
		return meta.Build{}, fmt.Errorf("invalid client address %q", c.ClientAddress)
	}
	b := meta.Build{
		Mode:            mode,
		DeviceID:        c.DeviceID,
		PollingInterval: c.PollingInterval,
		ClientAddress:   int(addr),
	}
	return b, b.Validate()
}

func (r RemoteConfig) sourceConfig() source.Config {
	return source.Config{RemoteBase: r.RemoteBase, Timeout: r.FetchTimeout}
}

func (m MetadataConfig) sourceConfig() source.Config {
	cfg := m.Remote.sourceConfig()
	cfg.LocalDir = m.MetadataDir
	cfg.CacheDirs = configpaths.MetadataCacheDirs(m.BuildDir, m.CacheDir...)
	cfg.Offline = m.Offline
	return cfg
}

func (o *Options) generator(logger *slog.Logger) (*generator.Generator, error) {
	build, err := o.Component.build()
	if err != nil {
		return nil, err
	}
	resolver := source.New(o.Metadata.sourceConfig(), logger)
	return generator.New(generator.Config{
		OutputDir:  o.Output,
		HeaderName: o.Header,
		SourceName: o.Source,
		Build:      build,
	}, resolver, logger), nil
}
