package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/drake/portal/api"
	"github.com/drake/portal/config"
	"github.com/drake/portal/debug"
	"github.com/drake/portal/i18n"
	"github.com/drake/portal/script"
	"github.com/drake/portal/ui/tui"
)

func (c *cli) newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the workspace (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context())
		},
	}
}

func (c *cli) runTUI(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	projects, err := c.projectsClient()
	if err != nil {
		return err
	}

	deps := tui.Deps{
		Projects: projects,
		Bundle:   i18n.Default(),
		Lang:     c.lang(),
		UI:       c.cfg.UI,
		UserID:   c.cfg.Projects.UserID,
		Logger:   c.logger,
	}

	var sources debug.Sources

	// Catalog must stay an untyped nil when the API is not configured.
	switch catalog, err := c.mappingClient(); {
	case err == nil:
		deps.Catalog = catalog
		sources.API = catalog
	case errors.Is(err, api.ErrNoBaseURL):
		c.logger.Info("mapping API disabled", "reason", err)
	default:
		return err
	}

	engine := script.NewEngine(c.logger)
	if err := engine.Init(); err != nil {
		return err
	}
	defer engine.Close()

	deps.Script = engine
	sources.Script = engine
	debug.NewMonitor(sources, c.logger).Start(ctx)

	deps.ScriptPath = config.InitFile()
	if err := engine.Load(deps.ScriptPath); err != nil {
		c.logger.Warn("init.lua failed", "path", deps.ScriptPath, "err", err)
	}
	if changes, err := script.Watch(ctx, deps.ScriptPath); err != nil {
		c.logger.Warn("watch init.lua", "err", err)
	} else {
		deps.ScriptChanges = changes
	}

	return tui.Run(ctx, deps)
}
