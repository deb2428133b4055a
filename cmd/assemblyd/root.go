package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"assemblyd/internal/config"
)

// version is overridden at link time with -ldflags "-X main.version=...".
var version = "dev"

type options struct {
	configPath string
	envFile    string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "assemblyd",
		Short:         "Type-indexed live instance registry with an HTTP watch API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (.yaml|.json|.toml); defaults to the first of ./assemblyd.* or ~/.config/assemblyd/config.yaml")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Load environment variables from this dotenv file before reading ASSEMBLYD_*")

	root.AddCommand(newServeCmd(opts), newInspectCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write([]byte("assemblyd " + version + "\n"))
			return err
		},
	}
}

// resolveConfig merges, lowest to highest precedence: defaults, config file,
// ASSEMBLYD_* environment, flags set explicitly on cmd.
func resolveConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil {
			return config.Config{}, err
		}
	}
	var cfg config.Config
	path := opts.configPath
	if path == "" {
		path = os.Getenv("ASSEMBLYD_CONFIG")
	}
	if path == "" {
		path = config.Discover()
	}
	if path != "" {
		c, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = c
	}
	applyEnv(&cfg)
	if err := applyFlags(cmd.Flags(), &cfg); err != nil {
		return config.Config{}, err
	}
	cfg = cfg.WithDefaults()
	return cfg, cfg.Validate()
}

func applyFlags(f *pflag.FlagSet, cfg *config.Config) error {
	var err error
	set := func(name string, apply func() error) {
		if err == nil && f.Changed(name) {
			err = apply()
		}
	}
	set("addr", func() (e error) { cfg.Addr, e = f.GetString("addr"); return })
	set("log-level", func() (e error) { cfg.LogLevel, e = f.GetString("log-level"); return })
	set("log-format", func() (e error) { cfg.LogFormat, e = f.GetString("log-format"); return })
	set("watch-timeout", func() (e error) { cfg.WatchTimeoutSeconds, e = f.GetInt("watch-timeout"); return })
	set("track-requests", func() (e error) { cfg.TrackRequests, e = f.GetBool("track-requests"); return })
	set("cors", func() (e error) { cfg.CORS.Enabled, e = f.GetBool("cors"); return })
	set("cors-origins", func() error {
		v, e := f.GetString("cors-origins")
		cfg.CORS.Origins = splitCSV(v)
		return e
	})
	return err
}

func applyEnv(cfg *config.Config) {
	if v := os.Getenv("ASSEMBLYD_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("ASSEMBLYD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ASSEMBLYD_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("ASSEMBLYD_WATCH_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.WatchTimeoutSeconds = n
		}
	}
	if v := os.Getenv("ASSEMBLYD_TRACK_REQUESTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.TrackRequests = b
		}
	}
	if v := os.Getenv("ASSEMBLYD_CORS_ORIGINS"); v != "" {
		cfg.CORS.Enabled = true
		cfg.CORS.Origins = splitCSV(v)
	}
}

// splitCSV splits a comma-separated list, trimming blanks.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
