package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/animeverse/pkg/app/styles"
	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/kerbaras/animeverse/pkg/utils"
)

type AnimeListItem struct {
	Anime       data.AnimeRecord
	InWatched   bool
	InWatchlist bool
}

// cardHeight is the number of lines one rendered card occupies.
const cardHeight = 6

type AnimeList struct {
	Items         []AnimeListItem
	SelectedIndex int
	Width         int
	Height        int
	EmptyText     string
}

func NewAnimeList(emptyText string) *AnimeList {
	return &AnimeList{
		Items:         []AnimeListItem{},
		SelectedIndex: 0,
		Width:         80,
		Height:        20,
		EmptyText:     emptyText,
	}
}

func (m *AnimeList) SetItems(items []AnimeListItem) {
	m.Items = items
	if m.SelectedIndex >= len(items) && len(items) > 0 {
		m.SelectedIndex = len(items) - 1
	}
	if len(items) == 0 {
		m.SelectedIndex = 0
	}
}

// SetRecords replaces the items with plain records, keeping no badges.
func (m *AnimeList) SetRecords(records []data.AnimeRecord) {
	items := make([]AnimeListItem, len(records))
	for i, r := range records {
		items[i] = AnimeListItem{Anime: r}
	}
	m.SetItems(items)
}

func (m *AnimeList) Next() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex++
	if m.SelectedIndex >= len(m.Items) {
		m.SelectedIndex = 0
	}
}

func (m *AnimeList) Prev() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex--
	if m.SelectedIndex < 0 {
		m.SelectedIndex = len(m.Items) - 1
	}
}

func (m *AnimeList) Selected() *AnimeListItem {
	if len(m.Items) == 0 || m.SelectedIndex >= len(m.Items) {
		return nil
	}
	return &m.Items[m.SelectedIndex]
}

// window returns the [start, end) range of items that fit in Height.
func (m *AnimeList) window() (int, int) {
	visible := m.Height / cardHeight
	if visible < 1 {
		visible = 1
	}
	if len(m.Items) <= visible {
		return 0, len(m.Items)
	}
	start := m.SelectedIndex - visible/2
	if start < 0 {
		start = 0
	}
	end := start + visible
	if end > len(m.Items) {
		end = len(m.Items)
		start = end - visible
	}
	return start, end
}

func (m *AnimeList) View() string {
	if len(m.Items) == 0 {
		emptyMsg := styles.MutedStyle.Render(m.EmptyText)
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	var b strings.Builder
	start, end := m.window()
	for i := start; i < end; i++ {
		item := m.Items[i]
		cardStyle := styles.CardStyle
		if i == m.SelectedIndex {
			cardStyle = styles.ActiveCardStyle
		}

		title := styles.TitleStyle.Render(item.Anime.Title)
		description := styles.TextStyle.Render(
			utils.Truncate(strings.ReplaceAll(utils.SanitizeHTML(item.Anime.Description), "\n", " "), 80),
		)

		meta := fmt.Sprintf("ID: %d", item.Anime.ID)
		if item.Anime.Source != "" {
			meta += " • Source: " + item.Anime.Source
		}
		var badges []string
		if item.InWatched {
			badges = append(badges, styles.StatusCompleted.Render("✓ watched"))
		}
		if item.InWatchlist {
			badges = append(badges, styles.StatusRunning.Render("★ watchlist"))
		}

		cardContent := lipgloss.JoinVertical(
			lipgloss.Left,
			title,
			description,
			styles.MutedStyle.Render(meta)+" "+strings.Join(badges, " "),
		)

		b.WriteString(cardStyle.Width(m.Width - 4).Render(cardContent))
		b.WriteString("\n")
	}

	if start > 0 || end < len(m.Items) {
		b.WriteString(styles.MutedStyle.Render(
			fmt.Sprintf("Showing %d-%d of %d", start+1, end, len(m.Items)),
		))
	}

	return b.String()
}
