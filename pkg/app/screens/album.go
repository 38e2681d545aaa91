package screens

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/animeverse/pkg/app/styles"
	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/kerbaras/animeverse/pkg/services"
	"github.com/kerbaras/animeverse/pkg/store"
	"github.com/kerbaras/animeverse/pkg/utils"
	"go.uber.org/zap"
)

type albumMode int

const (
	albumBrowse albumMode = iota
	albumAddPath
	albumEditNote
	albumConfirmDelete
)

type AlbumScreen struct {
	ctx   context.Context
	ctrl  *services.AnimeController
	input textinput.Model

	images   []data.ImageRecord
	selected int
	mode     albumMode
	disabled bool
	watching bool
	changes  chan struct{}

	alert  string
	notice string
	width  int
	height int
}

func NewAlbumScreen(ctx context.Context, ctrl *services.AnimeController) *AlbumScreen {
	ti := textinput.New()
	ti.CharLimit = 1024
	ti.Width = 60

	return &AlbumScreen{
		ctx:     ctx,
		ctrl:    ctrl,
		input:   ti,
		changes: make(chan struct{}, 1),
	}
}

func (s *AlbumScreen) Init() tea.Cmd {
	return s.loadAlbum
}

// Capturing reports whether the screen consumes every key: while an input,
// a confirmation or an alert is open.
func (s *AlbumScreen) Capturing() bool {
	return s.alert != "" || s.mode != albumBrowse
}

func (s *AlbumScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.input.Width = max(msg.Width-10, 20)

	case tea.KeyMsg:
		if s.alert != "" {
			s.alert = ""
			return s, nil
		}
		switch s.mode {
		case albumAddPath, albumEditNote:
			return s.updateInput(msg)
		case albumConfirmDelete:
			s.mode = albumBrowse
			if msg.String() == "y" {
				if img := s.current(); img != nil {
					return s, s.removeImage(img.URI)
				}
			}
			return s, nil
		}
		if s.disabled {
			if msg.String() == "r" {
				return s, s.loadAlbum
			}
			return s, nil
		}

		switch msg.String() {
		case "up", "k":
			if len(s.images) > 0 {
				s.selected = (s.selected - 1 + len(s.images)) % len(s.images)
			}
		case "down", "j":
			if len(s.images) > 0 {
				s.selected = (s.selected + 1) % len(s.images)
			}
		case "a":
			s.notice = ""
			s.mode = albumAddPath
			s.input.Placeholder = "Path to an image file..."
			s.input.SetValue("")
			s.input.Focus()
			return s, textinput.Blink
		case "n", "enter":
			if img := s.current(); img != nil {
				s.notice = ""
				s.mode = albumEditNote
				s.input.Placeholder = fmt.Sprintf("Write a note (max %d words)...", store.MaxNoteWords)
				s.input.SetValue("")
				if img.Note != nil {
					s.input.SetValue(img.Note.Text)
				}
				s.input.CursorEnd()
				s.input.Focus()
				return s, textinput.Blink
			}
		case "d":
			if s.current() != nil {
				s.mode = albumConfirmDelete
			}
		case "r":
			return s, s.loadAlbum
		}

	case albumLoadedMsg:
		if msg.err != nil {
			s.alert = alertText(msg.err)
			s.disabled = errors.Is(msg.err, data.ErrPermissionDenied)
			return s, nil
		}
		s.disabled = false
		s.setImages(msg.images)
		if !s.watching {
			s.watching = true
			return s, tea.Batch(s.watchAlbum, s.waitForChange)
		}

	case albumChangedMsg:
		s.setImages(s.ctrl.Album().List())
		return s, s.waitForChange

	case albumWatchStoppedMsg:
		s.watching = false
		if msg.err != nil {
			s.ctrl.Logger().Warn("album watcher stopped", zap.Error(msg.err))
		}

	case imageAddedMsg:
		if msg.err != nil {
			s.alert = alertText(msg.err)
			return s, nil
		}
		s.setImages(s.ctrl.Album().List())
		s.selected = len(s.images) - 1
		s.notice = "Image added: " + filepath.Base(msg.image.URI)

	case noteSavedMsg:
		if msg.err != nil {
			s.alert = alertText(msg.err)
			return s, nil
		}
		s.setImages(s.ctrl.Album().List())
		if msg.note.Text == "" {
			s.notice = "Note cleared"
		} else {
			s.notice = "Note saved on " + msg.note.Date
		}

	case imageRemovedMsg:
		if msg.err != nil {
			s.alert = alertText(msg.err)
			return s, nil
		}
		s.setImages(s.ctrl.Album().List())
		s.notice = "Image deleted"
	}

	if s.input.Focused() {
		s.input, cmd = s.input.Update(msg)
	}
	return s, cmd
}

func (s *AlbumScreen) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.mode = albumBrowse
		s.input.Blur()
		return s, nil
	case "enter":
		value := s.input.Value()
		mode := s.mode
		s.mode = albumBrowse
		s.input.Blur()
		if mode == albumAddPath {
			return s, s.addImage(expandHome(strings.TrimSpace(value)))
		}
		if img := s.current(); img != nil {
			return s, s.saveNote(img.URI, value)
		}
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *AlbumScreen) setImages(images []data.ImageRecord) {
	s.images = images
	if s.selected >= len(images) {
		s.selected = max(len(images)-1, 0)
	}
}

func (s *AlbumScreen) current() *data.ImageRecord {
	if len(s.images) == 0 || s.selected >= len(s.images) {
		return nil
	}
	return &s.images[s.selected]
}

func (s *AlbumScreen) View() string {
	header := styles.TitleStyle.Render(fmt.Sprintf("📷 Album (%d)", len(s.images)))

	if s.alert != "" {
		alert := styles.AlertStyle.Render(s.alert + "\n\n" + styles.MutedStyle.Render("press any key to dismiss"))
		return fmt.Sprintf("%s\n\n%s", header, alert)
	}
	if s.disabled {
		msg := styles.StatusError.Render("Album access was denied. Fix the folder permissions and press r to retry.")
		return fmt.Sprintf("%s\n\n%s", header, msg)
	}

	var b strings.Builder
	if len(s.images) == 0 {
		b.WriteString(styles.MutedStyle.Render("No images yet. Press a to add one."))
		b.WriteString("\n")
	}
	start, end := s.window()
	for i := start; i < end; i++ {
		img := s.images[i]
		line := fmt.Sprintf("%3d. %s", i+1, displayName(img.URI))
		if img.HasNote() {
			line += "  " + styles.MutedStyle.Render(img.Note.Date+" · "+utils.Truncate(img.Note.Text, 40))
		}
		if i == s.selected {
			line = styles.SelectedStyle.Render(line)
		} else {
			line = styles.TextStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	var footer string
	switch s.mode {
	case albumAddPath:
		footer = styles.SubtitleStyle.Render("Add image") + "\n" + styles.FocusedInputStyle.Render(s.input.View())
	case albumEditNote:
		words := utils.CountWords(s.input.Value())
		count := fmt.Sprintf("%d/%d words", words, store.MaxNoteWords)
		countStyle := styles.MutedStyle
		if words > store.MaxNoteWords {
			countStyle = styles.StatusError
		}
		footer = styles.SubtitleStyle.Render("Note") + " " + countStyle.Render(count) + "\n" +
			styles.FocusedInputStyle.Render(s.input.View())
	case albumConfirmDelete:
		footer = styles.StatusError.Render("Delete this image and its note? (y/N)")
	default:
		if img := s.current(); img != nil && img.HasNote() {
			footer = styles.CardStyle.Width(max(s.width-4, 20)).Render(lipgloss.JoinVertical(
				lipgloss.Left,
				styles.MutedStyle.Render(img.Note.Date),
				styles.TextStyle.Render(img.Note.Text),
			))
		}
	}

	var notice string
	if s.notice != "" {
		notice = styles.NoticeStyle.Render(s.notice) + "\n"
	}

	help := styles.HelpStyle.Render(
		"↑/k ↓/j: navigate • a: add image • n/enter: edit note • d: delete • r: reload • esc: cancel • tab: switch view",
	)

	return fmt.Sprintf("%s\n\n%s\n%s%s\n%s", header, b.String(), notice, footer, help)
}

func (s *AlbumScreen) window() (int, int) {
	visible := max(s.height-16, 5)
	if len(s.images) <= visible {
		return 0, len(s.images)
	}
	start := max(s.selected-visible/2, 0)
	end := min(start+visible, len(s.images))
	return end - visible, end
}

// displayName strips the uuid prefix added when the image was copied.
func displayName(uri string) string {
	base := filepath.Base(uri)
	if len(base) > 37 && base[36] == '-' {
		return base[37:]
	}
	return base
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if dir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(dir, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// Messages
type albumLoadedMsg struct {
	images []data.ImageRecord
	err    error
}

type albumChangedMsg struct{}

type albumWatchStoppedMsg struct {
	err error
}

type imageAddedMsg struct {
	image data.ImageRecord
	err   error
}

type noteSavedMsg struct {
	note data.Note
	err  error
}

type imageRemovedMsg struct {
	err error
}

// Commands
func (s *AlbumScreen) loadAlbum() tea.Msg {
	if err := s.ctrl.LoadAlbum(s.ctx); err != nil {
		return albumLoadedMsg{err: err}
	}
	return albumLoadedMsg{images: s.ctrl.Album().List()}
}

// watchAlbum blocks for the lifetime of the program, turning directory
// changes into signals on s.changes.
func (s *AlbumScreen) watchAlbum() tea.Msg {
	err := s.ctrl.Album().Watch(s.ctx, func() {
		select {
		case s.changes <- struct{}{}:
		default:
		}
	})
	return albumWatchStoppedMsg{err: err}
}

func (s *AlbumScreen) waitForChange() tea.Msg {
	select {
	case <-s.changes:
		return albumChangedMsg{}
	case <-s.ctx.Done():
		return nil
	}
}

func (s *AlbumScreen) addImage(path string) tea.Cmd {
	return func() tea.Msg {
		img, err := s.ctrl.Album().Add(s.ctx, path)
		return imageAddedMsg{image: img, err: err}
	}
}

func (s *AlbumScreen) saveNote(uri, text string) tea.Cmd {
	return func() tea.Msg {
		note, err := s.ctrl.Album().SetNote(s.ctx, uri, text)
		return noteSavedMsg{note: note, err: err}
	}
}

func (s *AlbumScreen) removeImage(uri string) tea.Cmd {
	return func() tea.Msg {
		return imageRemovedMsg{err: s.ctrl.Album().Remove(s.ctx, uri)}
	}
}
