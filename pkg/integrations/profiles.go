package integrations

// ReaderProfile describes the screen a journal export is tuned for.
type ReaderProfile struct {
	Name      string
	Width     int // Screen width in pixels
	Height    int // Screen height in pixels
	Grayscale bool
}

// ReaderProfiles are the export targets selectable with --profile.
var ReaderProfiles = map[string]ReaderProfile{
	"default": {
		Name:   "Default",
		Width:  1200,
		Height: 1600,
	},
	"phone": {
		Name:   "Phone",
		Width:  1080,
		Height: 1920,
	},
	"tablet": {
		Name:   "Tablet",
		Width:  1536,
		Height: 2048,
	},
	"ereader": {
		Name:      "E-reader",
		Width:     1072,
		Height:    1448,
		Grayscale: true,
	},
}

// GetReaderProfile returns the named profile, falling back to "default".
func GetReaderProfile(name string) ReaderProfile {
	if p, ok := ReaderProfiles[name]; ok {
		return p
	}
	return ReaderProfiles["default"]
}

// ThumbnailSettingsFor derives image settings from a profile.
func ThumbnailSettingsFor(p ReaderProfile) ThumbnailSettings {
	s := DefaultThumbnailSettings()
	s.MaxWidth = p.Width
	s.MaxHeight = p.Height
	s.Grayscale = p.Grayscale
	if p.Grayscale {
		s.Contrast = 1.2
	}
	return s
}
