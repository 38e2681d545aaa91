package screens

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/animeverse/pkg/app/styles"
)

// ShopScreen is a placeholder storefront.
type ShopScreen struct {
	width  int
	height int
}

func NewShopScreen() *ShopScreen {
	return &ShopScreen{}
}

func (s *ShopScreen) Init() tea.Cmd {
	return nil
}

func (s *ShopScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		s.width = msg.Width
		s.height = msg.Height
	}
	return s, nil
}

func (s *ShopScreen) View() string {
	header := styles.TitleStyle.Render("🛍  Shop")
	panel := styles.CardStyle.Render(lipgloss.JoinVertical(
		lipgloss.Center,
		styles.SubtitleStyle.Render("Coming soon"),
		"",
		styles.MutedStyle.Render("Figures, posters and merch from your favourite shows."),
	))
	if s.width > 0 {
		panel = lipgloss.Place(s.width, max(s.height-8, lipgloss.Height(panel)), lipgloss.Center, lipgloss.Center, panel)
	}
	return fmt.Sprintf("%s\n\n%s", header, panel)
}
