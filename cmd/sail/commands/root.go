package commands

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sail/internal/app"
)

type rootOptions struct {
	home       string
	configPath string
	logLevel   string
	logFormat  string
	metrics    string
	iterations int

	wire *app.Wire
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) error {
	opts := &rootOptions{}
	root := newRootCmd(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if opts.wire != nil {
		if cerr := opts.wire.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:          "sail",
		Short:        "Network mode and identity manager with encrypted local storage",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			w, err := app.NewWire(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts.wire = w
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.home, "home", "", "config dir (default ~/.sail)")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default <home>/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format: text or json")
	root.PersistentFlags().StringVar(&opts.metrics, "metrics-textfile", "", "write Prometheus metrics to this file on exit")
	root.PersistentFlags().IntVar(&opts.iterations, "kdf-iterations", 0, "PBKDF2 rounds for new namespace keys")

	root.AddCommand(
		statusCmd(opts),
		modeCmd(opts),
		identityCmd(opts),
		wipeCmd(opts),
		featuresCmd(opts),
	)
	return root
}

// config resolves the effective configuration: defaults, then the YAML file,
// then flags.
func (o *rootOptions) config() (app.Config, error) {
	home := o.home
	if home == "" {
		dir, err := app.DefaultHome()
		if err != nil {
			return app.Config{}, err
		}
		home = dir
	}
	path := o.configPath
	if path == "" {
		path = filepath.Join(home, app.ConfigFile)
	}
	fileCfg, err := app.LoadConfig(path)
	if err != nil {
		return app.Config{}, err
	}

	cfg := app.Config{Home: home, LogLevel: "warn", LogFormat: "text"}
	cfg = cfg.Override(fileCfg)
	return cfg.Override(app.Config{
		Home:            o.home,
		LogLevel:        o.logLevel,
		LogFormat:       o.logFormat,
		MetricsTextfile: o.metrics,
		KDFIterations:   o.iterations,
	}), nil
}
