package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/setlist/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSearchResults MsgKind = iota
	MsgSaved
)

type searchResults struct {
	generation uint64
	tracks     []models.Track
	err        error
}

type saved struct {
	ticket *models.Ticket
	err    error
}

// searchResultsMsg is the constructor for [MsgSearchResults]
func searchResultsMsg(gen uint64, tracks []models.Track, err error) Msg {
	return Msg{kind: MsgSearchResults, data: searchResults{generation: gen, tracks: tracks, err: err}}
}

// savedMsg is the constructor for [MsgSaved]
func savedMsg(ticket *models.Ticket, err error) Msg {
	return Msg{kind: MsgSaved, data: saved{ticket: ticket, err: err}}
}
