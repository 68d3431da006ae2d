package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	micrortu "github.com/yobol/go-micrortu"
	"github.com/yobol/go-micrortu/binding"
	"github.com/yobol/go-micrortu/registry"
	"github.com/yobol/go-micrortu/runner"
)

type stepFlags struct {
	wasm     string
	manifest string
	block    string
	steps    int
	set      []string
}

func newStepCommand(a *app) *cobra.Command {
	var f stepFlags
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Run init and a number of steps of a block",
		Long: `Run init and a number of steps of a block and print the elements it marks dirty.

Inputs are given as --set name=value[,value...]. Values are parsed per element kind: numbers, booleans,
or for double points one of 0..3.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("steps") {
				f.steps = a.cfg.Steps
			}
			return a.step(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}
	cmd.Flags().StringVar(&f.wasm, "wasm", "", "compiled block module")
	cmd.Flags().StringVar(&f.manifest, "manifest", "", "manifest describing the block")
	cmd.Flags().StringVar(&f.block, "block", "", "block name")
	cmd.Flags().IntVar(&f.steps, "steps", 1, "number of steps")
	cmd.Flags().StringArrayVar(&f.set, "set", nil, "initial value of a port or parameter, name=value[,value...]")
	for _, name := range []string{"wasm", "manifest", "block"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// parseAssignments turns name=v1,v2 pairs into elements of the kinds defs declares.
func parseAssignments(defs []binding.Definition, set []string) (map[string][]micrortu.SmallIE, error) {
	kinds := make(map[string]micrortu.TypeID, len(defs))
	for _, d := range defs {
		kinds[d.Name] = d.TypeID
	}
	values := make(map[string][]micrortu.SmallIE)
	for _, s := range set {
		name, raw, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: want name=value", s)
		}
		id, ok := kinds[name]
		if !ok {
			continue
		}
		for _, v := range strings.Split(raw, ",") {
			ie, _ := micrortu.DefaultForTypeID(id)
			if err := ie.UpdateFromValue(strings.TrimSpace(v)); err != nil {
				return nil, fmt.Errorf("--set %s: %w", name, err)
			}
			values[name] = append(values[name], ie)
		}
	}
	return values, nil
}

func (a *app) step(ctx context.Context, out io.Writer, f stepFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	m, err := registry.LoadManifest(f.manifest)
	if err != nil {
		return err
	}
	var block *registry.Block
	for i := range m.Blocks {
		if m.Blocks[i].Name == f.block {
			block = &m.Blocks[i]
		}
	}
	if block == nil {
		return fmt.Errorf("%s: %w: %s", f.manifest, registry.ErrNotFound, f.block)
	}
	wasm, err := os.ReadFile(f.wasm)
	if err != nil {
		return err
	}

	params, ports := block.ParamDefinitions(), block.PortDefinitions()
	s := &binding.Shared{ControlPeriod: a.cfg.ControlPeriod}
	for _, region := range []struct {
		defs []binding.Definition
		dst  *[]byte
	}{{params, &s.Params}, {ports, &s.Ports}} {
		values, err := parseAssignments(region.defs, f.set)
		if err != nil {
			return err
		}
		if *region.dst, err = binding.EncodeRegion(binding.Payloads(region.defs, values)); err != nil {
			return err
		}
	}

	opt := runner.NewOption(f.block).
		SetControlPeriod(a.cfg.ControlPeriod).
		SetMemoryLimitPages(a.cfg.MemoryLimitPages)
	r, err := runner.New(ctx, wasm, opt)
	if err != nil {
		return err
	}
	defer r.Close(ctx)

	if err := r.Init(ctx, s); err != nil {
		return err
	}
	pb, qb, err := s.Bind(params, ports)
	if err != nil {
		return err
	}
	for i := 0; i < f.steps; i++ {
		s.ClearDirty()
		if err := r.Step(ctx, s); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		fmt.Fprintf(out, "step %d\n", i)
		for _, b := range []*binding.Bindings{pb, qb} {
			printChanged(out, b)
		}
	}
	return nil
}

func printChanged(out io.Writer, b *binding.Bindings) {
	for _, d := range b.Definitions() {
		changed, _ := b.Changed(d.Name)
		if len(changed) == 0 {
			continue
		}
		vals, _ := b.Values(d.Name)
		for _, i := range changed {
			fmt.Fprintf(out, "  %s[%d] = %s\n", d.Name, i, vals[i])
		}
	}
}
