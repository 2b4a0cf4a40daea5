// Command portal is the terminal workspace for research data mapping items.
//
// Without a subcommand it starts the TUI. The other commands expose the same
// API calls for scripting and debugging.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/drake/portal/api"
	"github.com/drake/portal/config"
	"github.com/drake/portal/i18n"
	"github.com/drake/portal/internal/logging"
)

const (
	appName = "portal"
	Version = "0.3.0"
)

// Token and password overrides for write commands
const (
	EnvToken    = "PORTAL_TOKEN"
	EnvPassword = "PORTAL_PASSWORD"
)

// cli carries the state shared by every command after PersistentPreRunE.
type cli struct {
	configPath string
	logLevel   string
	locale     string

	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Terminal workspace for projects and mapping items",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.closeLog != nil {
				return c.closeLog()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default "+config.File()+")")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&c.locale, "locale", "", "UI language, e.g. de or en-GB")

	root.AddCommand(
		c.newTUICmd(),
		c.newServeCmd(),
		c.newProjectsCmd(),
		c.newProjectCmd(),
		c.newDestinationsCmd(),
		c.newCategoriesCmd(),
		c.newCategoryCmd(),
		c.newItemCmd(),
		c.newSearchCmd(),
		c.newSchemaCmd(),
		c.newValidateCmd(),
		c.newLoginCmd(),
	)
	return root
}

// logSinkAnnotation lets a command pick its default log sink.
const logSinkAnnotation = "portal.log.sink"

func (c *cli) setup(cmd *cobra.Command) error {
	path := c.configPath
	if path == "" {
		path = config.File()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.locale != "" {
		cfg.Locale = c.locale
	}
	c.cfg = cfg

	opts := logging.Options{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Sink:        cfg.Log.Sink,
		File:        cfg.Log.File,
		DefaultFile: filepath.Join(config.Dir(), appName+".log"),
		App:         appName,
		Version:     Version,
	}
	if sink, ok := cmd.Annotations[logSinkAnnotation]; ok {
		opts.Sink = sink
	}
	closeLog, err := logging.Init(opts)
	if err != nil {
		return err
	}
	c.closeLog = closeLog
	c.logger = slog.Default()
	return nil
}

func (c *cli) lang() string {
	return i18n.Default().Detect(c.cfg.Locale)
}

// mappingClient builds the mapping API client. It fails when no base URL is
// configured.
func (c *cli) mappingClient() (*api.Client, error) {
	if c.cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("%w: set api.base_url in %s or %s", api.ErrNoBaseURL, config.File(), config.EnvAPIBaseURL)
	}
	return api.New(c.cfg.API.BaseURL,
		api.WithTimeout(c.cfg.API.Timeout),
		api.WithCacheSize(c.cfg.API.CacheSize),
		api.WithToken(os.Getenv(EnvToken)),
		api.WithLogger(c.logger),
	)
}

func (c *cli) projectsClient() (*api.ProjectsClient, error) {
	return api.NewProjects(c.cfg.Projects.BaseURL,
		api.WithTimeout(c.cfg.API.Timeout),
		api.WithLogger(c.logger),
	)
}
