package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/setlist/internal/models"
)

var (
	_ list.Item = trackItem{}
)

// trackItem wraps [models.Track] to implement [list.Item].
//
// added marks search results that are already in the selection.
type trackItem struct {
	track models.Track
	added bool
}

func (i trackItem) FilterValue() string { return i.track.Title }

func (i trackItem) Title() string {
	if i.added {
		return i.track.Title + " " + styles.ok.Render("✓ Added")
	}
	return i.track.Title
}

func (i trackItem) Description() string {
	desc := i.track.Artist
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	return desc
}

func newTrackList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

// trackItems builds list items, marking those for which added reports true.
func trackItems(tracks []models.Track, added func(models.TrackID) bool) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t, added: added != nil && added(t.ID)}
	}
	return items
}
