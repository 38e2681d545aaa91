package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/kerbaras/animeverse/pkg/store"
	"github.com/kerbaras/animeverse/pkg/utils"
	"github.com/spf13/cobra"
)

// newCollectionCmd builds the list/add/rm command group for one collection.
func newCollectionCmd(key, emoji string) *cobra.Command {
	group := &cobra.Command{
		Use:   key,
		Short: fmt.Sprintf("Manage your %s list", key),
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List anime in your %s list", key),
		RunE: func(cmd *cobra.Command, args []string) error {
			records := ctrl.List(key).List()
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintf(out, "%s Your %s list is empty. Use 'animeverse %s add' to add anime.\n", emoji, key, key)
				return nil
			}
			fmt.Fprintf(out, "\n%s %s (%d anime)\n\n", emoji, strings.ToUpper(key[:1])+key[1:], len(records))
			fmt.Fprintln(out, renderCollectionTable(records))
			return nil
		},
	}

	var byID int
	add := &cobra.Command{
		Use:   "add [anime-name]",
		Short: fmt.Sprintf("Add an anime to your %s list", key),
		Long:  "Search for an anime and add the first match, or add a specific catalog entry with --id",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			var anime data.AnimeRecord
			switch {
			case byID != 0:
				found, err := ctrl.GetAnime(ctx, byID)
				if err != nil {
					return fmt.Errorf("lookup failed: %w", err)
				}
				anime = *found
			case len(args) > 0:
				query := strings.Join(args, " ")
				fmt.Fprintf(out, "🔍 Searching for '%s'...\n", query)
				results, err := ctrl.Search(ctx, query)
				if err != nil {
					return fmt.Errorf("search failed: %w", err)
				}
				if len(results) == 0 {
					fmt.Fprintln(out, "❌ No results found.")
					return nil
				}
				anime = results[0]
			default:
				return errors.New("provide an anime name or --id")
			}

			added, err := ctrl.List(key).Add(ctx, anime)
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintf(out, "'%s' is already in your %s list\n", anime.Title, key)
				return nil
			}
			fmt.Fprintf(out, "✅ Added '%s' (ID: %d) to your %s list\n", anime.Title, anime.ID, key)
			return nil
		},
	}
	add.Flags().IntVar(&byID, "id", 0, "catalog ID of the anime to add")

	rm := &cobra.Command{
		Use:     "rm [id-or-title]",
		Aliases: []string{"remove"},
		Short:   fmt.Sprintf("Remove an anime from your %s list", key),
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			anime, err := ctrl.Resolve(ctrl.List(key), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if _, err := ctrl.List(key).Remove(cmd.Context(), anime.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🗑  Removed '%s' from your %s list\n", anime.Title, key)
			return nil
		},
	}

	group.AddCommand(list, add, rm)
	return group
}

func renderCollectionTable(records []data.AnimeRecord) string {
	columns := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Title", Width: 40},
		{Title: "Source", Width: 8},
		{Title: "Description", Width: 50},
	}

	rows := make([]table.Row, 0, len(records))
	for _, anime := range records {
		desc := strings.ReplaceAll(utils.SanitizeHTML(anime.Description), "\n", " ")
		rows = append(rows, table.Row{
			strconv.Itoa(anime.ID),
			utils.Truncate(anime.Title, 38),
			anime.Source,
			utils.Truncate(desc, 48),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	return t.View()
}

func init() {
	rootCmd.AddCommand(newCollectionCmd(store.WatchedKey, "✅"))
	rootCmd.AddCommand(newCollectionCmd(store.WatchlistKey, "⭐"))
}
