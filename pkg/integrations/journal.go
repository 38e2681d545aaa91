package integrations

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-epub"
	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/kerbaras/animeverse/pkg/utils"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

// ErrEmptyJournal is returned when there is nothing to export.
var ErrEmptyJournal = errors.New("journal is empty")

// Journal is everything an export contains.
type Journal struct {
	Title     string
	Album     []data.ImageRecord
	Watched   []data.AnimeRecord
	Watchlist []data.AnimeRecord
}

func (j Journal) empty() bool {
	return len(j.Album) == 0 && len(j.Watched) == 0 && len(j.Watchlist) == 0
}

// JournalExporter compiles the album and both anime lists into an EPUB.
type JournalExporter struct {
	outputDir string
	thumbs    *Thumbnailer
	markdown  goldmark.Markdown
	logger    *zap.Logger
}

func NewJournalExporter(outputDir string, profile ReaderProfile, logger *zap.Logger) *JournalExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JournalExporter{
		outputDir: outputDir,
		thumbs:    NewThumbnailer(ThumbnailSettingsFor(profile)),
		// Raw HTML in notes is escaped.
		markdown: goldmark.New(goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps())),
		logger:   logger,
	}
}

// Export writes the journal and returns the path of the EPUB.
func (p *JournalExporter) Export(j Journal) (string, error) {
	if j.empty() {
		return "", ErrEmptyJournal
	}
	if j.Title == "" {
		j.Title = "AnimeVerse Journal"
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	workDir, err := os.MkdirTemp("", "animeverse-epub-*")
	if err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	e, err := epub.NewEpub(j.Title)
	if err != nil {
		return "", fmt.Errorf("failed to create EPub: %w", err)
	}
	e.SetAuthor("AnimeVerse")
	e.SetDescription(fmt.Sprintf("%d album pages, %d watched, %d on the watchlist",
		len(j.Album), len(j.Watched), len(j.Watchlist)))
	e.SetLang("en")

	for i, img := range j.Album {
		if err := p.addAlbumPage(e, workDir, i, img); err != nil {
			// A single unreadable image should not sink the export.
			p.logger.Warn("skipping album image", zap.String("uri", img.URI), zap.Error(err))
		}
	}
	if len(j.Watched) > 0 {
		if _, err := e.AddSection(p.renderAnimeList("Watched", j.Watched), "Watched", "", ""); err != nil {
			return "", fmt.Errorf("failed to add section: %w", err)
		}
	}
	if len(j.Watchlist) > 0 {
		if _, err := e.AddSection(p.renderAnimeList("Watchlist", j.Watchlist), "Watchlist", "", ""); err != nil {
			return "", fmt.Errorf("failed to add section: %w", err)
		}
	}

	outputPath := filepath.Join(p.outputDir, utils.SanitizeFilename(j.Title)+".epub")
	if err := e.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}
	p.logger.Info("journal exported", zap.String("path", outputPath))
	return outputPath, nil
}

func (p *JournalExporter) addAlbumPage(e *epub.Epub, workDir string, index int, img data.ImageRecord) error {
	scaled, err := p.thumbs.ProcessFile(img.URI)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("page-%04d%s", index+1, p.thumbs.Extension())
	local := filepath.Join(workDir, name)
	if err := os.WriteFile(local, scaled, 0o644); err != nil {
		return err
	}

	internalPath, err := e.AddImage(local, name)
	if err != nil {
		return fmt.Errorf("failed to add image: %w", err)
	}

	title := fmt.Sprintf("Page %d", index+1)
	var body strings.Builder
	fmt.Fprintf(&body, "<h1>%s</h1>\n", title)
	fmt.Fprintf(&body, `<div class="page"><img src="%s" alt="%s" style="width:100%%;height:auto;"/></div>`+"\n",
		internalPath, html.EscapeString(filepath.Base(img.URI)))
	if img.HasNote() {
		fmt.Fprintf(&body, "<p class=\"date\">%s</p>\n", html.EscapeString(img.Note.Date))
		body.WriteString(p.renderNote(img.Note.Text))
	}

	if _, err := e.AddSection(body.String(), title, "", ""); err != nil {
		return fmt.Errorf("failed to add section: %w", err)
	}
	return nil
}

// renderNote turns note Markdown into HTML, escaping it on failure.
func (p *JournalExporter) renderNote(text string) string {
	var buf bytes.Buffer
	if err := p.markdown.Convert([]byte(text), &buf); err != nil {
		return "<p>" + html.EscapeString(text) + "</p>"
	}
	return buf.String()
}

func (p *JournalExporter) renderAnimeList(heading string, list []data.AnimeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(heading))
	for _, a := range list {
		fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(a.Title))
		if desc := utils.SanitizeHTML(a.Description); desc != "" {
			for _, para := range strings.Split(desc, "\n") {
				if para = strings.TrimSpace(para); para != "" {
					fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(para))
				}
			}
		}
	}
	return b.String()
}
