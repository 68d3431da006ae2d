package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yobol/go-micrortu/registry"
	"golang.org/x/sync/errgroup"
)

func newManifestCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Validate and dump block manifests",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "validate FILE...",
			Short: "Load and register every block of the given manifests",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := a.registerAll(args)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %d blocks in %d files\n", len(r.Blocks()), len(args))
				return nil
			},
		},
		&cobra.Command{
			Use:   "dump FILE...",
			Short: "Finalize the given manifests and print the block metadata as JSON",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := a.registerAll(args)
				if err != nil {
					return err
				}
				blob, err := r.Finalize()
				if err != nil {
					return err
				}
				out, err := json.MarshalIndent(blob, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			},
		},
	)
	return cmd
}

// registerAll loads the manifests in parallel, then registers their blocks in argument order so a later file
// overwrites an earlier one when overwriting is allowed.
func (a *app) registerAll(paths []string) (*registry.Registry, error) {
	manifests := make([]registry.Manifest, len(paths))
	eg := errgroup.Group{}
	eg.SetLimit(a.cfg.Parallelism)
	for i, path := range paths {
		eg.Go(func() error {
			m, err := registry.LoadManifest(path)
			if err != nil {
				return err
			}
			manifests[i] = m
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	r := registry.New(registry.Option{AllowOverwrite: a.cfg.AllowOverwrite})
	for i, m := range manifests {
		if err := r.RegisterManifest(m); err != nil {
			return nil, fmt.Errorf("%s: %w", paths[i], err)
		}
	}
	return r, nil
}
