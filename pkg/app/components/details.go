package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/kerbaras/animeverse/pkg/app/styles"
	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/kerbaras/animeverse/pkg/utils"
)

// DescriptionWords is how much of a description is shown before "read more".
const DescriptionWords = 50

// DetailsPanel shows one anime with its description rendered as Markdown.
type DetailsPanel struct {
	Anime    *data.AnimeRecord
	Expanded bool
	Width    int

	style    string
	renderer *glamour.TermRenderer
	wrap     int
}

// NewDetailsPanel renders with the named glamour style ("dark", "light",
// "notty", ...).
func NewDetailsPanel(style string) *DetailsPanel {
	if style == "" {
		style = "dark"
	}
	return &DetailsPanel{Width: 80, style: style}
}

// Show selects anime and collapses the description.
func (d *DetailsPanel) Show(anime data.AnimeRecord) {
	d.Anime = &anime
	d.Expanded = false
}

func (d *DetailsPanel) Hide() {
	d.Anime = nil
}

func (d *DetailsPanel) Visible() bool {
	return d.Anime != nil
}

// ToggleExpanded flips between the truncated and the full description.
func (d *DetailsPanel) ToggleExpanded() {
	d.Expanded = !d.Expanded
}

// Description returns the text to display and whether it was cut short.
func (d *DetailsPanel) Description() (string, bool) {
	if d.Anime == nil {
		return "", false
	}
	desc := utils.SanitizeHTML(d.Anime.Description)
	if desc == "" {
		return "No description available.", false
	}
	if d.Expanded {
		return desc, false
	}
	return utils.TruncateWords(desc, DescriptionWords)
}

func (d *DetailsPanel) Markdown() string {
	if d.Anime == nil {
		return ""
	}
	desc, truncated := d.Description()

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Anime.Title)
	for _, para := range strings.Split(desc, "\n") {
		if para = strings.TrimSpace(para); para != "" {
			b.WriteString(para)
			b.WriteString("\n\n")
		}
	}
	if truncated {
		b.WriteString("*Read more (m)*\n\n")
	} else if d.Expanded {
		b.WriteString("*Show less (m)*\n\n")
	}
	fmt.Fprintf(&b, "`ID %d`", d.Anime.ID)
	if d.Anime.Source != "" {
		fmt.Fprintf(&b, " `%s`", d.Anime.Source)
	}
	if d.Anime.CoverImage != "" {
		fmt.Fprintf(&b, "\n\nCover: %s", d.Anime.CoverImage)
	}
	b.WriteString("\n")
	return b.String()
}

func (d *DetailsPanel) View() string {
	if d.Anime == nil {
		return ""
	}
	md := d.Markdown()

	wrap := d.Width - 8
	if wrap < 20 {
		wrap = 20
	}
	if d.renderer == nil || d.wrap != wrap {
		r, err := glamour.NewTermRenderer(
			glamour.WithStylePath(d.style),
			glamour.WithWordWrap(wrap),
		)
		if err == nil {
			d.renderer = r
			d.wrap = wrap
		}
	}

	out := md
	if d.renderer != nil {
		if rendered, err := d.renderer.Render(md); err == nil {
			out = rendered
		}
	}
	return styles.CardStyle.Width(d.Width - 4).Render(strings.TrimRight(out, "\n"))
}
