package config

import "github.com/geappliances/erdgen/internal/cmd"

// Log configures the process logger.
type Log struct {
	Level  string `help:"Log level" default:"info" enum:"trace,debug,info,warn,error" env:"ERDGEN_LOG_LEVEL"`
	File   string `help:"Also write logs to this file" type:"path" env:"ERDGEN_LOG_FILE"`
	Format string `help:"Log format; auto uses json when stdout is not a terminal" default:"auto" enum:"text,json,auto" env:"ERDGEN_LOG_FORMAT"`
}

// CLI is the root command line of erdgen.
type CLI struct {
	ConfigFile string `name:"config" help:"Config file (json, yaml or toml)" type:"path" env:"ERDGEN_CONFIG"`
	Log        Log    `embed:"" prefix:"log."`

	Generate cmd.Generate      `cmd:"" default:"withargs" help:"Generate the ERD list declarations and definitions"`
	Check    cmd.Check         `cmd:"" help:"Fail when the generated files differ from a fresh render"`
	Fetch    cmd.Fetch         `cmd:"" help:"Download the metadata documents into the user cache"`
	Config   cmd.ConfigCommand `cmd:"" help:"Configuration helpers"`
	Version  cmd.Version       `cmd:"" help:"Print the erdgen version"`
}
