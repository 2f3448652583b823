package main

import (
	"fmt"

	"github.com/jongio/parseurl/clidoc"
	"github.com/jongio/parseurl/cliout"
	"github.com/jongio/parseurl/config"
	"github.com/jongio/parseurl/logutil"
	"github.com/jongio/parseurl/pgfunc"
	"github.com/jongio/parseurl/urlcache"
	"github.com/jongio/parseurl/urlparse"
	"github.com/jongio/parseurl/version"
	"github.com/spf13/cobra"
)

const appName = "parseurl"

// app carries global flag values and the loaded configuration to the
// subcommands.
type app struct {
	configPath string
	output     string
	logFormat  string
	debug      bool

	cfg *config.Config
	log *logutil.ComponentLogger
}

func newRootCommand() *cobra.Command {
	a := &app{log: logutil.NewLogger("cli")}

	root := &cobra.Command{
		Use:   appName,
		Short: "Parse URLs into their components",
		Long: `parseurl splits URLs into scheme, user, pass, host, port, path, query and
fragment using the same rules as PHP's parse_url, and converts them to and
from a compact packed encoding.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.output, "output", "o", "", "Output format: default, json, yaml")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: text, json")
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML config file (default $"+config.EnvConfig+")")

	root.AddCommand(
		newParseCommand(a),
		newKeyCommand(a),
		newEncodeCommand(a),
		newDecodeCommand(a),
		newRenderCommand(a),
		newOpenCommand(a),
		newCacheCommand(a),
		newMCPCommand(a),
		version.NewCommand(version.New(appName)),
		clidoc.NewCommand(func() *cobra.Command { return root }, clidoc.Options{
			Version: version.Version,
			EnvVars: envVars(),
			Keys:    urlparse.Keys(),
		}),
	)
	return root
}

// setup loads configuration and applies flags over it. Flags win only when
// set explicitly.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = a.output
	}
	if flags.Changed("debug") {
		cfg.Debug = a.debug
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logFormat, err := logutil.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}
	logutil.SetupLogger(cfg.Debug, logFormat == logutil.FormatJSON)
	if err := cliout.SetFormat(cfg.Output); err != nil {
		return err
	}

	a.cfg = cfg
	a.log.Debug("configuration loaded", "output", cfg.Output, "cacheDir", cfg.Cache.Dir)
	return nil
}

// cache returns the packed cache for dir, falling back to the configured
// directory. It returns nil when neither is set.
func (a *app) cache(dir string) *urlcache.Manager {
	cfg := *a.cfg
	if dir != "" {
		cfg.Cache.Dir = dir
	}
	if cfg.Cache.Dir == "" {
		return nil
	}
	return urlcache.NewManager(cfg.CacheOptions(version.CacheVersion()))
}

func (a *app) binding(cacheDir string) *pgfunc.Binding {
	opts := []pgfunc.Option{pgfunc.WithLogger(logutil.NewLogger("pgfunc"))}
	if m := a.cache(cacheDir); m != nil {
		opts = append(opts, pgfunc.WithCache(m))
	}
	return pgfunc.New(opts...)
}

func envVars() []clidoc.EnvVarMetadata {
	return []clidoc.EnvVarMetadata{
		{Name: config.EnvConfig, Description: "Path to a YAML config file", Example: "~/.parseurl.yaml"},
		{Name: config.EnvDebug, Description: "Enable debug logging", Default: "false", Example: "true"},
		{Name: config.EnvOutput, Description: "Output format", Default: "default", Example: "json"},
		{Name: config.EnvLogFormat, Description: "Log format", Default: string(logutil.FormatText), Example: "json"},
		{Name: config.EnvCacheDir, Description: "Directory for the packed cache; unset disables it"},
	}
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("expected %s, got %d argument(s)", usage, len(args))
		}
		return nil
	}
}
