package registry

import (
	"fmt"

	micrortu "github.com/yobol/go-micrortu"
	"github.com/yobol/go-micrortu/binding"
	"gopkg.in/validator.v2"
)

// Port describes a port or a parameter of a block. Max 0 is unbounded.
type Port struct {
	Name        string            `toml:"name" json:"name" validate:"min=1,max=32"`
	Type        micrortu.TypeID   `toml:"type" json:"type"`
	Description string            `toml:"description" json:"description"`
	Direction   binding.Direction `toml:"direction" json:"direction"`
	Required    bool              `toml:"required" json:"required"`
	Min         uint16            `toml:"min" json:"min" validate:"min=1"`
	Max         uint16            `toml:"max" json:"max"`
}

func (p Port) Definition() binding.Definition {
	return binding.Definition{
		Name:      p.Name,
		Direction: p.Direction,
		Required:  p.Required,
		TypeID:    p.Type,
		Min:       p.Min,
		Max:       p.Max,
	}
}

// ConfigField is one typed field of a block's static configuration.
type ConfigField struct {
	Name string `toml:"name" json:"name" validate:"min=1,max=32"`
	Type string `toml:"type" json:"type" validate:"regexp=^(u8|u16|u32|u64|i8|i16|i32|i64|f32|f64)$"`
}

// Block is the metadata of one control block.
type Block struct {
	Name              string        `toml:"name" json:"name" validate:"min=2,max=32,regexp=^[a-z][a-z0-9_]*$"`
	Description       string        `toml:"description" json:"description"`
	SemverRequirement string        `toml:"semver_requirement" json:"semver_requirement,omitempty"`
	Ports             []Port        `toml:"ports" json:"ports"`
	Params            []Port        `toml:"params" json:"params"`
	Config            []ConfigField `toml:"config" json:"block_conf,omitempty"`
}

// Validate checks b and every port, parameter and config field in it. Names must be unique within ports, within
// params and within config.
func (b Block) Validate() error {
	if err := validator.Validate(b); err != nil {
		return fmt.Errorf("%w: block %q: %v", ErrInvalid, b.Name, err)
	}
	for _, group := range []struct {
		kind  string
		ports []Port
	}{{"port", b.Ports}, {"param", b.Params}} {
		kind := group.kind
		seen := make(map[string]bool, len(group.ports))
		for _, p := range group.ports {
			if err := validator.Validate(p); err != nil {
				return fmt.Errorf("%w: block %q: %s %q: %v", ErrInvalid, b.Name, kind, p.Name, err)
			}
			if err := p.Definition().Validate(); err != nil {
				return fmt.Errorf("%w: block %q: %v", ErrInvalid, b.Name, err)
			}
			if seen[p.Name] {
				return fmt.Errorf("%w: block %q: %s %q declared twice", ErrInvalid, b.Name, kind, p.Name)
			}
			seen[p.Name] = true
		}
	}
	seen := make(map[string]bool, len(b.Config))
	for _, f := range b.Config {
		if err := validator.Validate(f); err != nil {
			return fmt.Errorf("%w: block %q: config %q: %v", ErrInvalid, b.Name, f.Name, err)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: block %q: config %q declared twice", ErrInvalid, b.Name, f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

func definitions(ports []Port) []binding.Definition {
	defs := make([]binding.Definition, len(ports))
	for i, p := range ports {
		defs[i] = p.Definition()
	}
	return defs
}

// PortDefinitions and ParamDefinitions return the binder view of the block.
func (b Block) PortDefinitions() []binding.Definition { return definitions(b.Ports) }
func (b Block) ParamDefinitions() []binding.Definition { return definitions(b.Params) }
