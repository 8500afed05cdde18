// Package preset loads named freeze recipes from a YAML file so a CLI
// invocation can select a recipe by name instead of spelling out every
// freeze flag.
package preset

/*------------------------------------------------------------------
 *
 * Purpose:	Named freeze presets: window kind, overlap, freeze
 *		factor, and snapshot gain, loaded from a user-supplied
 *		YAML file and looked up by name. CLI flags explicitly
 *		set by the user override whatever a preset supplies.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset is one named freeze recipe. FreezeXfade is the crossfade span
// in samples (FreezePeak - FreezeStart), matching the CLI's sample-
// position flags.
type Preset struct {
	Window       string  `yaml:"window"`
	Overlap      int     `yaml:"overlap"`
	FreezeFactor float64 `yaml:"freeze_factor"`
	FreezeXfade  int     `yaml:"freeze_xfade"`
	FreezeAmp    *bool   `yaml:"freeze_amp"`
	FreezePhase  *bool   `yaml:"freeze_phase"`
	SnapshotGain float64 `yaml:"snapshot_gain"`
}

// File is a YAML document mapping preset names to recipes.
type File map[string]Preset

// Load reads and parses a preset file.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("preset: parsing %s: %w", path, err)
	}

	return f, nil
}

// Lookup returns the named preset from f.
func (f File) Lookup(name string) (Preset, error) {
	p, ok := f[name]
	if !ok {
		return Preset{}, fmt.Errorf("preset: no preset named %q", name)
	}
	return p, nil
}
