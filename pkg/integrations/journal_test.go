package integrations

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kerbaras/animeverse/pkg/data"
)

// epubText concatenates every XHTML document in the archive.
func epubText(t *testing.T, path string) string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("Failed to open EPub: %v", err)
	}
	defer r.Close()

	var b strings.Builder
	for _, f := range r.File {
		if !strings.HasSuffix(f.Name, ".xhtml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open %s: %v", f.Name, err)
		}
		content, _ := io.ReadAll(rc)
		rc.Close()
		b.Write(content)
	}
	return b.String()
}

func writeAlbumImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, encodeTestPNG(t, 40, 30), 0644); err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	return path
}

func TestExportEmptyJournal(t *testing.T) {
	exporter := NewJournalExporter(t.TempDir(), GetReaderProfile("default"), nil)
	if _, err := exporter.Export(Journal{}); !errors.Is(err, ErrEmptyJournal) {
		t.Errorf("Export() error = %v, want ErrEmptyJournal", err)
	}
}

func TestExportJournal(t *testing.T) {
	outputDir := t.TempDir()
	albumDir := t.TempDir()

	journal := Journal{
		Title: "Spring: 2024",
		Album: []data.ImageRecord{
			{
				URI:  writeAlbumImage(t, albumDir, "a.png"),
				Note: &data.Note{Text: "a **great** <script>x</script> day", Date: "07/03/2024"},
			},
			{URI: writeAlbumImage(t, albumDir, "b.png")},
		},
		Watched: []data.AnimeRecord{
			{ID: 1, Title: "Cowboy Bebop", Description: "Space<br>bounty &amp; jazz"},
		},
		Watchlist: []data.AnimeRecord{
			{ID: 2, Title: "Mushishi"},
		},
	}

	exporter := NewJournalExporter(outputDir, GetReaderProfile("ereader"), nil)
	path, err := exporter.Export(journal)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if filepath.Dir(path) != outputDir {
		t.Errorf("Expected EPub in %s, got %s", outputDir, filepath.Dir(path))
	}
	if filepath.Base(path) != "Spring_ 2024.epub" {
		t.Errorf("Expected sanitized filename, got %q", filepath.Base(path))
	}

	text := epubText(t, path)
	for _, want := range []string{
		"<strong>great</strong>",
		"07/03/2024",
		"Cowboy Bebop",
		"<p>Space</p>",
		"bounty &amp; jazz",
		"Mushishi",
		"Page 2",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("EPub should contain %q", want)
		}
	}
	if strings.Contains(text, "<script>") {
		t.Error("raw HTML in notes should be escaped")
	}
}

func TestExportSkipsUnreadableImages(t *testing.T) {
	exporter := NewJournalExporter(t.TempDir(), GetReaderProfile("default"), nil)
	path, err := exporter.Export(Journal{
		Album:   []data.ImageRecord{{URI: filepath.Join(t.TempDir(), "gone.png")}},
		Watched: []data.AnimeRecord{{ID: 1, Title: "Monster"}},
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	text := epubText(t, path)
	if strings.Contains(text, "Page 1") {
		t.Error("missing image should not produce a page")
	}
	if !strings.Contains(text, "Monster") {
		t.Error("EPub should contain the watched list")
	}
}
