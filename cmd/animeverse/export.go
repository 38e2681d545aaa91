package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kerbaras/animeverse/pkg/integrations"
	"github.com/spf13/cobra"
)

var (
	exportOutput  string
	exportProfile string
	exportTitle   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your journal as an EPUB",
	Long:  "Compile the album, its notes and both anime lists into a single EPUB file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ctrl.LoadAlbum(cmd.Context()); err != nil {
			return err
		}

		if _, ok := integrations.ReaderProfiles[exportProfile]; !ok {
			return fmt.Errorf("unknown profile %q (available: %s)", exportProfile, strings.Join(profileNames(), ", "))
		}

		outputDir := exportOutput
		if outputDir == "" {
			outputDir = filepath.Join(cfg.DataDir, "exports")
		}

		out := cmd.OutOrStdout()
		profile := integrations.GetReaderProfile(exportProfile)
		fmt.Fprintf(out, "📚 Building journal for %s (%dx%d)...\n", profile.Name, profile.Width, profile.Height)

		exporter := integrations.NewJournalExporter(outputDir, profile, logger)
		path, err := exporter.Export(integrations.Journal{
			Title:     exportTitle,
			Album:     ctrl.Album().List(),
			Watched:   ctrl.Watched().List(),
			Watchlist: ctrl.Watchlist().List(),
		})
		if errors.Is(err, integrations.ErrEmptyJournal) {
			fmt.Fprintln(out, "Nothing to export yet. Add images or anime first.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		fmt.Fprintf(out, "✅ Journal saved to %s\n", path)
		return nil
	},
}

func profileNames() []string {
	names := make([]string, 0, len(integrations.ReaderProfiles))
	for name := range integrations.ReaderProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output directory (default <data-dir>/exports)")
	exportCmd.Flags().StringVarP(&exportProfile, "profile", "p", "default", "reader profile: "+strings.Join(profileNames(), ", "))
	exportCmd.Flags().StringVarP(&exportTitle, "title", "t", "", "journal title")
	rootCmd.AddCommand(exportCmd)
}
