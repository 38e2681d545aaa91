package screens

import (
	"errors"
	"fmt"

	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/kerbaras/animeverse/pkg/store"
)

// SwitchScreenMsg asks the root screen to change tab.
type SwitchScreenMsg struct {
	Screen string
	Data   interface{}
}

// collectionChangedMsg tells every screen that a watched/watchlist store was
// mutated so that badges and lists can be refreshed.
type collectionChangedMsg struct {
	key string
}

// Tab names used by SwitchScreenMsg and the --tab flag.
const (
	TabAlbum     = "album"
	TabSearch    = "search"
	TabWatched   = "watched"
	TabWatchlist = "watchlist"
	TabPomodoro  = "pomodoro"
	TabShop      = "shop"
)

// alertText maps an error to the message shown in the modal alert.
func alertText(err error) string {
	switch {
	case errors.Is(err, data.ErrPermissionDenied):
		return "Permission denied: the album folder cannot be accessed. Album features are disabled."
	case errors.Is(err, data.ErrValidation):
		return fmt.Sprintf("Note must be %d words or less.", store.MaxNoteWords)
	case errors.Is(err, data.ErrCopy):
		return "Could not save the image: " + err.Error()
	case errors.Is(err, data.ErrIO):
		return "Could not save your changes: " + err.Error()
	default:
		return err.Error()
	}
}
