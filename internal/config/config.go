// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config binds npucc's compile-time configuration — accelerator
// selection, SHRAM LUT geometry, output path and log level — from flags,
// environment and an optional config file, in the shape of the pack's
// viper/pflag-bound config packages.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is npucc's full resolved configuration.
type Config struct {
	Accelerator string     `mapstructure:"accelerator"`
	Shram       ShramConfig `mapstructure:"shram"`
	GraphPath   string     `mapstructure:"graph_path"`
	OutputPath  string     `mapstructure:"output_path"`
	LogLevel    string     `mapstructure:"log_level"`
}

// ShramConfig overrides the per-accelerator SHRAM LUT geometry the lut
// package's Geometry is built from; zero values mean "use the
// accelerator's built-in defaults".
type ShramConfig struct {
	LUTAddress          int64 `mapstructure:"lut_address"`
	LUTSize             int64 `mapstructure:"lut_size"`
	ReservedUnusedBanks int   `mapstructure:"reserved_unused_banks"`
}

// flagBinder is the subset of *cobra.Command Load needs, so it does not
// have to import cobra directly.
type flagBinder interface {
	Flags() *pflag.FlagSet
}

// LoadOptions parameterizes Load.
type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

// DefaultConfig returns npucc's baseline configuration: U55-128, no SHRAM
// LUT geometry overrides (so the selected accelerator's reference geometry
// applies), and info-level logging.
func DefaultConfig() Config {
	return Config{
		Accelerator: "U55-128",
		Shram: ShramConfig{
			LUTAddress:          0,
			LUTSize:             0,
			ReservedUnusedBanks: 0,
		},
		GraphPath:  "",
		OutputPath: "out.bin",
		LogLevel:   "info",
	}
}

// RegisterFlags adds npucc's persistent flags to fs, defaulted from
// defaults.
func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("accelerator", defaults.Accelerator, "Target NPU accelerator (U55-32|U55-64|U55-128|U55-256|U65-256|U65-512)")
	fs.Int64("shram-lut-address", defaults.Shram.LUTAddress, "SHRAM LUT region base address override")
	fs.Int64("shram-lut-size", defaults.Shram.LUTSize, "SHRAM LUT region size override in bytes")
	fs.Int("shram-reserved-unused-banks", defaults.Shram.ReservedUnusedBanks, "Unused SHRAM banks the accelerator reserves")
	fs.String("graph", defaults.GraphPath, "Path to the input graph")
	fs.String("out", defaults.OutputPath, "Path to write the driver payload")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

// Load resolves a Config by layering flags over environment (NPUCC_
// prefix) over an optional config file over opts.Defaults.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("NPUCC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("npucc")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("accelerator", c.Accelerator)
	v.SetDefault("shram.lut_address", c.Shram.LUTAddress)
	v.SetDefault("shram.lut_size", c.Shram.LUTSize)
	v.SetDefault("shram.reserved_unused_banks", c.Shram.ReservedUnusedBanks)
	v.SetDefault("graph_path", c.GraphPath)
	v.SetDefault("output_path", c.OutputPath)
	v.SetDefault("log_level", c.LogLevel)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("accelerator", "accelerator")
	v.RegisterAlias("shram.lut_address", "shram-lut-address")
	v.RegisterAlias("shram.lut_size", "shram-lut-size")
	v.RegisterAlias("shram.reserved_unused_banks", "shram-reserved-unused-banks")
	v.RegisterAlias("graph_path", "graph")
	v.RegisterAlias("output_path", "out")
	v.RegisterAlias("log_level", "log-level")
}
