package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drake/portal/api"
)

func (c *cli) newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List mapping categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.mappingClient()
			if err != nil {
				return err
			}
			names, err := client.GetCategories(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func (c *cli) newCategoryCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "category <name>",
		Short: "List the mapping items of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.mappingClient()
			if err != nil {
				return err
			}

			var page api.PaginationParameter
			if cmd.Flags().Changed("limit") {
				page.Limit = &limit
			}
			if cmd.Flags().Changed("offset") {
				page.Offset = &offset
			}

			res, err := client.GetCategory(cmd.Context(), args[0], page)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, it := range res.Items {
				fmt.Fprintf(out, "%s\t%s\n", it.ID, it.DisplayName(c.cfg.UI.DisplayPath))
			}
			fmt.Fprintf(out, "%d of %d\n", len(res.Items), res.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of items")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of items to skip")
	return cmd
}

func (c *cli) newItemCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "item <id>",
		Short: "Show a mapping item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.mappingClient()
			if err != nil {
				return err
			}
			item, err := client.GetItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if path != "" {
				r := item.Get(path)
				if !r.Exists() {
					return fmt.Errorf("%s: no value at %q", item.ID, path)
				}
				return writeJSON(cmd.OutOrStdout(), []byte(r.Raw))
			}
			return writeJSON(cmd.OutOrStdout(), item.Document())
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "print only the value at this JSON path")
	cmd.AddCommand(c.newItemSetCmd())
	return cmd
}

func (c *cli) newItemSetCmd() *cobra.Command {
	var (
		dryRun bool
		token  string
	)

	cmd := &cobra.Command{
		Use:   "set <id> path=value...",
		Short: "Edit fields of a mapping item",
		Long: `Sets each JSON path to value and patches the item. Values that are valid
JSON (numbers, true, {"a":1}) are stored as JSON, anything else as a string.
With --dry-run the change is shown as a diff and nothing is sent.`,
		Example: `  portal item set 6543 resourceName.0.name="Ocean Hub" dates.0.dateType=created`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			client, err := c.mappingClient()
			if err != nil {
				return err
			}

			item, err := client.GetItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			before := item.Document()
			edited := *item
			if err := apply(&edited, sets); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprint(out, lineDiff(before, edited.Document()))
				return nil
			}

			if token == "" {
				token = os.Getenv(EnvToken)
			}
			saved, err := client.PatchItem(cmd.Context(), &edited, token)
			if err != nil {
				return err
			}
			c.logger.Info("item patched", "id", saved.ID, "fields", len(sets))
			return writeJSON(out, saved.Document())
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the diff without saving")
	cmd.Flags().StringVar(&token, "token", "", "bearer token (default $"+EnvToken+")")
	return cmd
}

func (c *cli) newSearchCmd() *cobra.Command {
	var hub string

	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Full text search over mapping items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.mappingClient()
			if err != nil {
				return err
			}
			res, err := client.Search(cmd.Context(), api.SearchParameter{SearchText: args[0], Hub: hub})
			if err != nil {
				return err
			}
			for _, it := range res.Items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", it.ID, it.DisplayName(c.cfg.UI.DisplayPath))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&hub, "hub", "", "restrict the search to a hub")
	return cmd
}

func (c *cli) newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <name>",
		Short: "Print a JSON schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.mappingClient()
			if err != nil {
				return err
			}
			schema, err := client.GetSchema(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), schema)
		},
	}
}

func (c *cli) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <schema> <file>",
		Short: "Validate an item document against a schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			var item api.Item
			if err := json.Unmarshal(data, &item); err != nil {
				return fmt.Errorf("parse %s: %w", args[1], err)
			}

			client, err := c.mappingClient()
			if err != nil {
				return err
			}
			verdict, err := client.Validate(cmd.Context(), &item, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), verdict)
		},
	}
}

func (c *cli) newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <user>",
		Short: "Request an access token",
		Long:  "Reads the password from $" + EnvPassword + " and prints the access token.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv(EnvPassword)
			if password == "" {
				return errors.New(EnvPassword + " is not set")
			}
			client, err := c.mappingClient()
			if err != nil {
				return err
			}
			token, err := client.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
