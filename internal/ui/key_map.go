package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the ticket form.
type keyMap struct {
	next   key.Binding
	prev   key.Binding
	cont   key.Binding
	back   key.Binding
	enter  key.Binding
	remove key.Binding
	submit key.Binding
	skip   key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		cont:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "continue")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search/add")),
		remove: key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		skip:   key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "skip")),
		quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) detailsHelp() []key.Binding {
	return []key.Binding{k.next, k.prev, k.cont, k.submit, k.quit}
}

func (k keyMap) songsHelp() []key.Binding {
	return []key.Binding{k.next, k.enter, k.remove, k.back, k.submit, k.skip, k.quit}
}
