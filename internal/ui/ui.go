package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/setlist/internal/models"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/workflow"
)

// pane is the focused area of the songs stage.
type pane int

const (
	queryPane pane = iota
	resultsPane
	selectionPane
	paneCount
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	session  *workflow.Session
	searcher workflow.Searcher
	logger   *log.Logger

	form      detailsForm
	query     textinput.Model
	results   list.Model
	selection list.Model
	pane      pane

	status string
	err    error
	saving bool
	width  int
	height int
	help   help.Model
	keys   keyMap
}

// NewModel creates a form bound to session. searcher runs the session's catalog searches.
//
// If session is editing a ticket, pass it as editing so the details inputs are prefilled.
func NewModel(ctx context.Context, session *workflow.Session, searcher workflow.Searcher, editing *models.Ticket, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	query := textinput.New()
	query.Placeholder = `artist:"Metallica" or any text`
	query.Prompt = "Search: "
	query.CharLimit = 200

	m := &Model{
		ctx:       ctx,
		session:   session,
		searcher:  searcher,
		logger:    logger,
		form:      newDetailsForm(),
		query:     query,
		results:   newTrackList("Results"),
		selection: newTrackList("Selected"),
		help:      help.New(),
		keys:      newKeyMap(),
	}
	if editing != nil {
		m.form.fill(*editing)
	}
	m.refreshSelection()
	return m
}

// Init starts the cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.submit) {
			return m, m.submit(false)
		}
		switch m.session.Stage() {
		case workflow.StageDetails:
			return m.handleDetailsKeys(msg)
		case workflow.StageSongs:
			return m.handleSongsKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgSearchResults:
			data := msg.data.(searchResults)
			if m.session.ApplyResults(data.generation, data.tracks, data.err) {
				m.refreshResults()
			}
			return m, nil

		case MsgSaved:
			data := msg.data.(saved)
			m.saving = false
			if data.err != nil {
				m.err = data.err
				return m, nil
			}
			m.err = nil
			m.status = fmt.Sprintf("Saved %q (%d songs)", data.ticket.ConcertName, len(data.ticket.Songs))
			m.form.clear()
			m.query.Reset()
			m.pane = queryPane
			m.refreshSelection()
			m.refreshResults()
			return m, nil
		}
	}

	return m, nil
}

func (m *Model) handleDetailsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.next), msg.Type == tea.KeyEnter:
		m.form.move(1)
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.form.move(-1)
		return m, nil
	case key.Matches(msg, m.keys.cont):
		m.session.Advance()
		m.err = nil
		m.focusPane(queryPane)
		return m, nil
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func (m *Model) handleSongsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.session.Retreat()
		return m, nil
	case key.Matches(msg, m.keys.skip):
		return m, m.submit(true)
	case key.Matches(msg, m.keys.next):
		m.focusPane((m.pane + 1) % paneCount)
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.focusPane((m.pane + paneCount - 1) % paneCount)
		return m, nil
	}

	switch m.pane {
	case queryPane:
		if msg.Type == tea.KeyEnter {
			return m, m.search()
		}
		var cmd tea.Cmd
		m.query, cmd = m.query.Update(msg)
		return m, cmd

	case resultsPane:
		if key.Matches(msg, m.keys.enter) {
			if item, ok := m.results.SelectedItem().(trackItem); ok {
				m.session.SelectTrack(item.track)
				m.refreshSelection()
				m.refreshResults()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd

	case selectionPane:
		if key.Matches(msg, m.keys.remove) || key.Matches(msg, m.keys.enter) {
			if item, ok := m.selection.SelectedItem().(trackItem); ok {
				m.session.DeselectTrack(item.track.ID)
				m.refreshSelection()
				m.refreshResults()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.selection, cmd = m.selection.Update(msg)
		return m, cmd
	}

	return m, nil
}

// search tags a new search with the session's next generation and runs it in the background.
func (m *Model) search() tea.Cmd {
	gen, q, err := m.session.BeginSearch(m.query.Value())
	if errors.Is(err, shared.ErrEmptyQuery) {
		return nil
	}
	if m.searcher == nil {
		m.session.ApplyResults(gen, nil, fmt.Errorf("%w: no catalog configured", shared.ErrServiceUnavailable))
		return nil
	}

	ctx, searcher := m.ctx, m.searcher
	return func() tea.Msg {
		tracks, err := searcher.Search(ctx, q)
		return searchResultsMsg(gen, tracks, err)
	}
}

// submit saves the current details and selection. skip routes through [workflow.Session.Skip].
func (m *Model) submit(skip bool) tea.Cmd {
	if m.saving {
		return nil
	}

	details, err := m.form.ticket()
	if err != nil {
		m.err = err
		return nil
	}
	if skip && m.session.Stage() != workflow.StageSongs {
		m.err = shared.ErrSkipNotAllowed
		return nil
	}

	m.saving = true
	m.status = "Saving..."
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		var (
			t   *models.Ticket
			err error
		)
		if skip {
			t, err = session.Skip(ctx, details)
		} else {
			t, err = session.Submit(ctx, details)
		}
		return savedMsg(t, err)
	}
}

func (m *Model) focusPane(p pane) {
	m.pane = p
	if p == queryPane {
		m.query.Focus()
	} else {
		m.query.Blur()
	}
}

func (m *Model) refreshResults() {
	m.results.SetItems(trackItems(m.session.Results(), m.session.IsSelected))
}

func (m *Model) refreshSelection() {
	m.selection.SetItems(trackItems(m.session.Selection(), nil))
	m.selection.Title = fmt.Sprintf("Selected (%d)", len(m.session.Selection()))
}

func (m *Model) resizeLists() {
	w := max((m.width-8)/2, 20)
	h := max(m.height-12, 5)
	m.results.SetSize(w, h)
	m.selection.SetSize(w, h)
}

// View renders the UI based on the current stage.
func (m *Model) View() string {
	var body, helpView string
	switch m.session.Stage() {
	case workflow.StageSongs:
		body = m.renderSongs()
		helpView = m.help.ShortHelpView(m.keys.songsHelp())
	default:
		body = m.renderDetails()
		helpView = m.help.ShortHelpView(m.keys.detailsHelp())
	}

	var footer string
	switch {
	case m.err != nil:
		footer = styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case m.status != "":
		footer = styles.ok.Render(m.status)
	}

	return fmt.Sprintf("%s\n%s\n\n%s", body, footer, helpView)
}

func (m *Model) renderDetails() string {
	title := "New Ticket · Details"
	if id := m.session.EditingID(); id != "" {
		title = fmt.Sprintf("Edit Ticket %s · Details", id)
	}
	return fmt.Sprintf("%s\n%s", styles.title.Render(title), m.form.view())
}

func (m *Model) renderSongs() string {
	name := m.form.value(fieldConcertName)
	if name == "" {
		name = "Untitled"
	}
	title := styles.title.Render(fmt.Sprintf("%s · Songs", name))

	var state string
	switch {
	case m.session.Busy():
		state = styles.warn.Render("Searching...")
	case m.session.SearchFailed():
		state = styles.err.Render("Search failed. Try again.")
	case m.session.Query() != "":
		state = styles.help.Render(fmt.Sprintf("%d results for %q", len(m.session.Results()), m.session.Query()))
	}

	paneStyle := func(p pane) lipgloss.Style {
		if m.pane == p {
			return styles.active
		}
		return styles.pane
	}

	lists := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle(resultsPane).Render(m.results.View()),
		paneStyle(selectionPane).Render(m.selection.View()),
	)

	return strings.Join([]string{
		title,
		paneStyle(queryPane).Render(m.query.View()),
		state,
		lists,
	}, "\n")
}
