package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/kerbaras/animeverse/pkg/utils"
	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for anime",
	Long:  "Search the configured anime catalog and display results in a table",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		results, err := ctrl.Search(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if len(results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No results found.")
			return nil
		}
		if searchLimit > 0 && len(results) > searchLimit {
			results = results[:searchLimit]
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderAnimeTable(results))
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results to show (0 for all)")
	rootCmd.AddCommand(searchCmd)
}

// renderAnimeTable draws records with their provider ID and status badges.
func renderAnimeTable(records []data.AnimeRecord) string {
	var (
		purple = lipgloss.Color("99")

		headerStyle = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
		cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	)

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			default:
				return cellStyle
			}
		}).
		Headers("#", "Title", "ID", "Lists")

	for i, anime := range records {
		var lists []string
		if ctrl.Watched().Contains(anime.ID) {
			lists = append(lists, "watched")
		}
		if ctrl.Watchlist().Contains(anime.ID) {
			lists = append(lists, "watchlist")
		}
		t.Row(strconv.Itoa(i+1), utils.Truncate(anime.Title, 58), strconv.Itoa(anime.ID), strings.Join(lists, ", "))
	}

	return t.String()
}
