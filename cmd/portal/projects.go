package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/drake/portal/api"
	"github.com/drake/portal/ui/util"
)

func (c *cli) newProjectsCmd() *cobra.Command {
	var (
		userID string
		match  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List workspace projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.projectsClient()
			if err != nil {
				return err
			}
			if userID == "" {
				userID = c.cfg.Projects.UserID
			}
			items, err := client.GetProjects(cmd.Context(), userID)
			if err != nil {
				return err
			}
			items = rankProjects(items, match)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			return printProjects(cmd.OutOrStdout(), items)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "list projects of this user")
	cmd.Flags().StringVar(&match, "match", "", "fuzzy filter on the title, best match first")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// rankProjects keeps the projects whose title fuzzy-matches pattern, best
// first. An empty pattern keeps the server order.
func rankProjects(items []api.WorkItem, pattern string) []api.WorkItem {
	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = it.Title
	}
	matches := util.FuzzyRank(pattern, titles)
	out := make([]api.WorkItem, len(matches))
	for i, m := range matches {
		out[i] = items[m.Index]
	}
	return out
}

func printProjects(w io.Writer, items []api.WorkItem) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCATEGORY\tTITLE")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.ID, it.Status, it.Category, it.Title)
	}
	return tw.Flush()
}

func (c *cli) newProjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "project <id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.projectsClient()
			if err != nil {
				return err
			}
			p, err := client.GetProjectDescription(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), p)
		},
	}
}

func (c *cli) newDestinationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "destinations <id>",
		Short: "List the publication platforms of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.projectsClient()
			if err != nil {
				return err
			}
			dests, err := client.GetProjectDestinations(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, d := range dests {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}
}
