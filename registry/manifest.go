package registry

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	micrortu "github.com/yobol/go-micrortu"
)

// Manifest is the TOML description of one or more blocks:
//
//	[[block]]
//	name = "counter"
//	description = "counts rising edges"
//
//	[[block.ports]]
//	name = "count"
//	type = "M_ME_NC_1"
//	direction = "in_out"
//	required = true
//	min = 1
//	max = 1
type Manifest struct {
	Blocks []Block `toml:"block"`
}

// DecodeManifest reads a manifest from r. Unknown keys are rejected. The blocks are not validated.
func DecodeManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	meta, err := toml.NewDecoder(r).Decode(&m)
	if err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Manifest{}, fmt.Errorf("decode manifest: unknown keys %s", strings.Join(keys, ", "))
	}
	return m, nil
}

// LoadManifest decodes and validates the manifest at path.
func LoadManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, err
	}
	defer f.Close()

	m, err := DecodeManifest(f)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", path, err)
	}
	for _, b := range m.Blocks {
		if err := b.Validate(); err != nil {
			return Manifest{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	micrortu.Logger().Debugf("loaded %d blocks from %s", len(m.Blocks), path)
	return m, nil
}

// Encode writes m as TOML.
func (m Manifest) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(m)
}
