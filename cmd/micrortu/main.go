// Command micrortu validates block manifests, runs WebAssembly control blocks and decodes information elements.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	micrortu "github.com/yobol/go-micrortu"
)

type app struct {
	cfg        config
	configPath string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	a := &app{cfg: defaultConfig()}
	root := &cobra.Command{
		Use:           "micrortu",
		Short:         "Tools for micrortu control blocks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "TOML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overrides the config file")

	root.AddCommand(
		newManifestCommand(a),
		newStepCommand(a),
		newIECommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.configPath != "" {
		cfg, err := loadConfig(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.logLevel != "" {
		lvl, err := logrus.ParseLevel(a.logLevel)
		if err != nil {
			return err
		}
		a.cfg.LogLevel = lvl
	}
	lg := logrus.New()
	lg.SetOutput(cmd.ErrOrStderr())
	lg.SetLevel(a.cfg.LogLevel)
	micrortu.SetLogger(lg)
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "micrortu: %v\n", err)
		os.Exit(1)
	}
}
