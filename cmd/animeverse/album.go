package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/kerbaras/animeverse/pkg/store"
	"github.com/kerbaras/animeverse/pkg/utils"
	"github.com/spf13/cobra"
)

var albumCmd = &cobra.Command{
	Use:   "album",
	Short: "Manage your photo album",
	Long:  "List, add and remove album images and attach short notes to them",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(cmd, args); err != nil {
			return err
		}
		return ctrl.LoadAlbum(cmd.Context())
	},
}

var albumListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List album images and their notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		images := ctrl.Album().List()
		if len(images) == 0 {
			fmt.Fprintln(out, "📷 Your album is empty. Use 'animeverse album add <path>' to add an image.")
			return nil
		}

		fmt.Fprintf(out, "\n📷 Album (%d images)\n\n", len(images))
		for i, img := range images {
			fmt.Fprintf(out, "%3d. %s\n", i+1, imageName(img.URI))
			if img.Note != nil {
				fmt.Fprintf(out, "     %s  %s\n", img.Note.Date, utils.Truncate(img.Note.Text, 70))
			}
		}
		return nil
	},
}

var albumAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Copy an image into the album",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := ctrl.Album().Add(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Image added: %s\n", imageName(rec.URI))
		return nil
	},
}

var albumRemoveCmd = &cobra.Command{
	Use:     "rm <number|path>",
	Aliases: []string{"remove"},
	Short:   "Delete an image and its note",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := findImage(args[0])
		if err != nil {
			return err
		}
		if err := ctrl.Album().Remove(cmd.Context(), img.URI); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑  Image deleted: %s\n", imageName(img.URI))
		return nil
	},
}

var albumNoteCmd = &cobra.Command{
	Use:   "note <number|path> [text...]",
	Short: "Attach a note to an image",
	Long: fmt.Sprintf("Attach a note of at most %d words to an image. The note is dated today. "+
		"Omitting the text clears the note.", store.MaxNoteWords),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := findImage(args[0])
		if err != nil {
			return err
		}
		note, err := ctrl.Album().SetNote(cmd.Context(), img.URI, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		if note.Text == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Note cleared on %s\n", imageName(img.URI))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "📝 Note saved on %s\n", note.Date)
		return nil
	},
}

func init() {
	albumCmd.AddCommand(albumListCmd, albumAddCmd, albumRemoveCmd, albumNoteCmd)
	rootCmd.AddCommand(albumCmd)
}

// findImage resolves a 1-based album position or a stored image path.
func findImage(ref string) (data.ImageRecord, error) {
	images := ctrl.Album().List()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(images) {
			return data.ImageRecord{}, fmt.Errorf("%w: image %d (album has %d images)", data.ErrNotFound, n, len(images))
		}
		return images[n-1], nil
	}
	for _, img := range images {
		if img.URI == ref || filepath.Base(img.URI) == ref || imageName(img.URI) == ref {
			return img, nil
		}
	}
	return data.ImageRecord{}, fmt.Errorf("%w: image %q", data.ErrNotFound, ref)
}

// imageName strips the generated ID prefix from a stored image file name.
func imageName(uri string) string {
	base := filepath.Base(uri)
	if len(base) > 37 && base[36] == '-' {
		return base[37:]
	}
	return base
}
