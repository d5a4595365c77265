// Package packs loads pattern packs: YAML files of extra harmful-content
// patterns that are appended to the engine's built-in rule set. Packs keep
// the detection rules editable without rebuilding the binary.
package packs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pack is one YAML pattern-pack file.
type Pack struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Version     string        `yaml:"version"`
	Author      string        `yaml:"author"`
	Patterns    []PatternSpec `yaml:"patterns"`
}

// PatternSpec is a single rule in a pack. The pattern is validated by the
// engine when applied, not at load time, so one bad expression never
// rejects a whole pack.
type PatternSpec struct {
	Pattern  string `yaml:"pattern"`
	Category string `yaml:"category"`
}

// Info summarizes a pack for listing.
type Info struct {
	Name         string
	Description  string
	Version      string
	Author       string
	Enabled      bool
	Path         string
	PatternCount int
}

// PatternAdder is the part of the filter engine packs needs.
type PatternAdder interface {
	AddCustomPattern(pattern, category string)
}

// Load reads every .yaml/.yml file in dir. Files whose basename starts
// with an underscore are listed but skipped (disabled); unparseable files
// appear in the listing without patterns. A missing dir is not an error.
func Load(dir string) ([]PatternSpec, []Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var specs []PatternSpec
	var infos []Info

	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		baseName := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		enabled := !strings.HasPrefix(baseName, "_")

		pack, err := loadPack(path)
		if err != nil {
			infos = append(infos, Info{
				Name:    baseName,
				Enabled: enabled,
				Path:    path,
			})
			continue
		}

		info := Info{
			Name:         pack.Name,
			Description:  pack.Description,
			Version:      pack.Version,
			Author:       pack.Author,
			Enabled:      enabled,
			Path:         path,
			PatternCount: len(pack.Patterns),
		}
		if info.Name == "" {
			info.Name = baseName
		}
		infos = append(infos, info)

		if !enabled {
			continue
		}
		specs = append(specs, pack.Patterns...)
	}

	return specs, infos, nil
}

// Apply feeds pack patterns into the engine. Invalid expressions are
// dropped by AddCustomPattern itself.
func Apply(adder PatternAdder, specs []PatternSpec) {
	for _, s := range specs {
		adder.AddCustomPattern(s.Pattern, s.Category)
	}
}

func loadPack(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to parse pack %s: %w", path, err)
	}
	return &pack, nil
}

func isYAMLFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
