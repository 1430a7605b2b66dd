// Copyright © 2020-2021 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// MethodConfig contains parameters of a sketching method,
// from command-line flags or a YAML/TOML file.
type MethodConfig struct {
	Method string `yaml:"method" toml:"method"`
	K      int    `yaml:"k" toml:"k"`
	W      int    `yaml:"w" toml:"w"`
	Shape  string `yaml:"shape" toml:"shape"`

	WindowMin int    `yaml:"w-min" toml:"w-min"`
	WindowMax int    `yaml:"w-max" toml:"w-max"`
	Order     int    `yaml:"order" toml:"order"`
	Strategy  string `yaml:"strategy" toml:"strategy"`
	RandMask  string `yaml:"rand-mask" toml:"rand-mask"`

	Positions []int `yaml:"positions" toml:"positions"`
	Canonical bool  `yaml:"canonical" toml:"canonical"`

	Seed  string `yaml:"seed" toml:"seed"`
	Mixer string `yaml:"mixer" toml:"mixer"`

	BioSketches bool `yaml:"bio-sketches" toml:"bio-sketches"`
}

// DefaultMethodConfig returns the default parameters.
func DefaultMethodConfig() MethodConfig {
	return MethodConfig{
		Method:    KindKmer,
		K:         15,
		WindowMin: 25,
		WindowMax: 50,
		Order:     2,
		Strategy:  "min",
		Seed:      "0x8F3F73B5CF1C9ADE",
		Mixer:     "fnv",
	}
}

// ReadMethodConfig reads parameters from a YAML (.yaml/.yml) or TOML
// (.toml) file, unset parameters keep the values of cfg.
func ReadMethodConfig(file string, cfg *MethodConfig) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrapf(err, "read config file: %s", file)
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config file format (.yaml, .yml or .toml): %s", file)
	}
	if err != nil {
		return errors.Wrapf(err, "parse config file: %s", file)
	}
	return nil
}

// WriteMethodConfig writes parameters into a YAML file.
func WriteMethodConfig(file string, cfg *MethodConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal parameters")
	}
	return os.WriteFile(file, data, 0644)
}

func addMethodFlags(cmd *cobra.Command) {
	d := DefaultMethodConfig()

	cmd.Flags().StringP("config", "c", "", `read method parameters from a YAML (.yaml/.yml) or TOML (.toml) file, explicitly given flags override them`)

	cmd.Flags().StringP("method", "M", d.Method, `sketching method, available: kmer, minimiser, modmer, strobemer, syncmer, opensyncmer`)
	cmd.Flags().IntP("kmer-len", "k", d.K, `k-mer size`)
	cmd.Flags().IntP("window", "w", d.W, `minimiser: window size in bases; modmer: modulus; syncmer/opensyncmer: s-mer size`)
	cmd.Flags().StringP("shape", "", d.Shape, `k-mer shape as an integer bit mask (e.g., 0b11011), overrides -k/--kmer-len`)

	cmd.Flags().IntP("w-min", "", d.WindowMin, `strobemer: lower offset of strobe windows`)
	cmd.Flags().IntP("w-max", "", d.WindowMax, `strobemer: upper offset of strobe windows`)
	cmd.Flags().IntP("order", "", d.Order, `strobemer: order, 2 or 3`)
	cmd.Flags().BoolP("minstrobers", "", false, `strobemer: use minstrobes`)
	cmd.Flags().BoolP("randstrobemers", "", false, `strobemer: use randstrobes`)
	cmd.Flags().BoolP("hybrid", "", false, `strobemer: use hybridstrobes`)
	cmd.Flags().StringP("rand-mask", "", d.RandMask, `strobemer: bit mask of randstrobes (default 0xAE)`)

	cmd.Flags().IntSliceP("positions", "p", d.Positions, `syncmer: accepted offsets of the smallest s-mer, default {0, k-s} for syncmers and {0} for opensyncmers`)
	cmd.Flags().BoolP("canonical", "", d.Canonical, `syncmer: use strand-independent syncmers`)

	cmd.Flags().StringP("seed", "", d.Seed, `seed XORed to k-mer hashes, only the highest 2k bits are used, 0 for no seeding`)
	cmd.Flags().StringP("mixer", "", d.Mixer, `modmer: mixing function, available: fnv, wyhash, xxh3, wang`)
	cmd.Flags().BoolP("bio-sketches", "", d.BioSketches, `use k-mers, minimizers and syncmers from github.com/shenwei356/bio as baselines`)
}

// getMethodConfig merges default parameters, the config file and flags.
func getMethodConfig(cmd *cobra.Command) *MethodConfig {
	cfg := DefaultMethodConfig()

	if file := getFlagString(cmd, "config"); file != "" {
		checkError(ReadMethodConfig(expandPath(file), &cfg))
	}

	flags := cmd.Flags()
	if flags.Changed("method") {
		cfg.Method = getFlagString(cmd, "method")
	}
	if flags.Changed("kmer-len") {
		cfg.K = getFlagPositiveInt(cmd, "kmer-len")
	}
	if flags.Changed("window") {
		cfg.W = getFlagNonNegativeInt(cmd, "window")
	}
	if flags.Changed("shape") {
		cfg.Shape = getFlagString(cmd, "shape")
	}
	if flags.Changed("w-min") {
		cfg.WindowMin = getFlagInt(cmd, "w-min")
	}
	if flags.Changed("w-max") {
		cfg.WindowMax = getFlagInt(cmd, "w-max")
	}
	if flags.Changed("order") {
		cfg.Order = getFlagInt(cmd, "order")
	}
	if flags.Changed("rand-mask") {
		cfg.RandMask = getFlagString(cmd, "rand-mask")
	}
	if flags.Changed("positions") {
		cfg.Positions = getFlagIntSlice(cmd, "positions")
	}
	if flags.Changed("canonical") {
		cfg.Canonical = getFlagBool(cmd, "canonical")
	}
	if flags.Changed("seed") {
		cfg.Seed = getFlagString(cmd, "seed")
	}
	if flags.Changed("mixer") {
		cfg.Mixer = getFlagString(cmd, "mixer")
	}
	if flags.Changed("bio-sketches") {
		cfg.BioSketches = getFlagBool(cmd, "bio-sketches")
	}

	var strategies []string
	for _, s := range []struct{ flag, strategy string }{
		{"minstrobers", "min"},
		{"randstrobemers", "rand"},
		{"hybrid", "hybrid"},
	} {
		if getFlagBool(cmd, s.flag) {
			strategies = append(strategies, s.strategy)
		}
	}
	if len(strategies) > 1 {
		checkError(fmt.Errorf("only one of --minstrobers, --randstrobemers and --hybrid is allowed"))
	}
	if len(strategies) == 1 {
		cfg.Strategy = strategies[0]
	}

	return &cfg
}

func getMethod(cmd *cobra.Command) *Method {
	m, err := NewMethod(getMethodConfig(cmd))
	checkError(err)
	return m
}
