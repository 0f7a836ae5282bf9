// Package config loads locator, decoder, and UPC-A tuning from a YAML
// file and environment variables, layered over the packages' own
// defaults. It is a convenience surface: every Options struct it
// produces can also be built directly in code, and nothing in
// locator, decoder, or symbology depends on this package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/etekin/blade/decoder"
	"github.com/etekin/blade/locator"
	"github.com/etekin/blade/symbology"
)

const (
	configFileName = "blade"
	envPrefix      = "BLADE"
)

// LocatorConfig mirrors locator.Options for unmarshaling.
type LocatorConfig struct {
	GradThresh              int     `mapstructure:"grad_thresh"`
	Scale                   int     `mapstructure:"scale"`
	NOrientations           int     `mapstructure:"n_orientations"`
	CellSize                int     `mapstructure:"cell_size"`
	MaxEntropy              float64 `mapstructure:"max_entropy"`
	MaxVotesPerBin          int     `mapstructure:"max_votes_per_bin"`
	MinVotesPerOrientation  int     `mapstructure:"min_votes_per_orientation"`
	MinVotesPerMode         int     `mapstructure:"min_votes_per_mode"`
	MaxDistBtwEdges         int     `mapstructure:"max_dist_between_edges"`
	MinEdgesInBarcode       int     `mapstructure:"min_edges_in_barcode"`
	MinEdgeDensityInBarcode float64 `mapstructure:"min_edge_density_in_barcode"`
}

// DecoderConfig mirrors decoder.Options for unmarshaling.
type DecoderConfig struct {
	EdgeThresh              int     `mapstructure:"edge_thresh"`
	FundamentalWidth        int     `mapstructure:"fundamental_width"`
	EdgePowerCoefficient    float64 `mapstructure:"edge_power_coefficient"`
	MaxEdgeMagnitude        float64 `mapstructure:"max_edge_magnitude"`
	EdgeFixedLocationVar    float64 `mapstructure:"edge_fixed_location_var"`
	EdgeRelativeLocationVar float64 `mapstructure:"edge_relative_location_var"`
}

// UPCAConfig mirrors symbology.Options for unmarshaling.
type UPCAConfig struct {
	MinMargin float64 `mapstructure:"min_margin"`
	MaxEnergy float64 `mapstructure:"max_energy"`
}

// Config is the top-level unmarshal target for a blade.yaml file or
// BLADE_-prefixed environment variables.
type Config struct {
	LogLevel   string        `mapstructure:"log_level"`
	LocatorCfg LocatorConfig `mapstructure:"locator"`
	DecoderCfg DecoderConfig `mapstructure:"decoder"`
	UPCACfg    UPCAConfig    `mapstructure:"upca"`
}

// Load builds a viper instance seeded with the package defaults, reads
// an optional blade.yaml from the current directory, the user's config
// directory, and /etc/blade (in addition to any extra paths given),
// binds BLADE_-prefixed environment variables over file values, and
// validates the result the same way the Engine constructor would.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "blade"))
	}
	v.AddConfigPath("/etc/blade")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}

	if _, err := cfg.Locator(); err != nil {
		return nil, err
	}
	if _, err := cfg.Decoder(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	l := locator.DefaultOptions()
	v.SetDefault("locator.grad_thresh", l.GradThresh)
	v.SetDefault("locator.scale", l.Scale)
	v.SetDefault("locator.n_orientations", l.NOrientations)
	v.SetDefault("locator.cell_size", l.CellSize)
	v.SetDefault("locator.max_entropy", l.MaxEntropy)
	v.SetDefault("locator.max_votes_per_bin", l.MaxVotesPerBin)
	v.SetDefault("locator.min_votes_per_orientation", l.MinVotesPerOrientation)
	v.SetDefault("locator.min_votes_per_mode", l.MinVotesPerMode)
	v.SetDefault("locator.max_dist_between_edges", l.MaxDistBtwEdges)
	v.SetDefault("locator.min_edges_in_barcode", l.MinEdgesInBarcode)
	v.SetDefault("locator.min_edge_density_in_barcode", l.MinEdgeDensityInBarcode)

	d := decoder.DefaultOptions()
	v.SetDefault("decoder.edge_thresh", d.EdgeThresh)
	v.SetDefault("decoder.fundamental_width", d.FundamentalWidth)
	v.SetDefault("decoder.edge_power_coefficient", d.EdgePowerCoefficient)
	v.SetDefault("decoder.max_edge_magnitude", d.MaxEdgeMagnitude)
	v.SetDefault("decoder.edge_fixed_location_var", d.EdgeFixedLocationVar)
	v.SetDefault("decoder.edge_relative_location_var", d.EdgeRelativeLocationVar)

	u := symbology.DefaultOptions()
	v.SetDefault("upca.min_margin", u.MinMargin)
	v.SetDefault("upca.max_energy", u.MaxEnergy)

	v.SetDefault("log_level", "info")
}

// Locator converts the unmarshaled locator section into a validated
// locator.Options.
func (c *Config) Locator() (locator.Options, error) {
	o := locator.Options{
		GradThresh:              c.LocatorCfg.GradThresh,
		Scale:                   c.LocatorCfg.Scale,
		NOrientations:           c.LocatorCfg.NOrientations,
		CellSize:                c.LocatorCfg.CellSize,
		MaxEntropy:              c.LocatorCfg.MaxEntropy,
		MaxVotesPerBin:          c.LocatorCfg.MaxVotesPerBin,
		MinVotesPerOrientation:  c.LocatorCfg.MinVotesPerOrientation,
		MinVotesPerMode:         c.LocatorCfg.MinVotesPerMode,
		MaxDistBtwEdges:         c.LocatorCfg.MaxDistBtwEdges,
		MinEdgesInBarcode:       c.LocatorCfg.MinEdgesInBarcode,
		MinEdgeDensityInBarcode: c.LocatorCfg.MinEdgeDensityInBarcode,
	}
	if err := o.Validate(); err != nil {
		return locator.Options{}, fmt.Errorf("config: locator: %w", err)
	}
	return o, nil
}

// Decoder converts the unmarshaled decoder section into a validated
// decoder.Options.
func (c *Config) Decoder() (decoder.Options, error) {
	o := decoder.Options{
		EdgeThresh:              c.DecoderCfg.EdgeThresh,
		FundamentalWidth:        c.DecoderCfg.FundamentalWidth,
		EdgePowerCoefficient:    c.DecoderCfg.EdgePowerCoefficient,
		MaxEdgeMagnitude:        c.DecoderCfg.MaxEdgeMagnitude,
		EdgeFixedLocationVar:    c.DecoderCfg.EdgeFixedLocationVar,
		EdgeRelativeLocationVar: c.DecoderCfg.EdgeRelativeLocationVar,
	}
	if err := o.Validate(); err != nil {
		return decoder.Options{}, fmt.Errorf("config: decoder: %w", err)
	}
	return o, nil
}

// UPCA converts the unmarshaled upca section into symbology.Options.
func (c *Config) UPCA() symbology.Options {
	return symbology.Options{
		MinMargin: c.UPCACfg.MinMargin,
		MaxEnergy: c.UPCACfg.MaxEnergy,
	}
}
