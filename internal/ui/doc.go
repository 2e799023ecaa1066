// Package ui implements the interactive ticket form using bubbletea's Elm architecture.
//
// The form follows the two stages of a [workflow.Session]:
//  1. Details : text inputs for the concert fields
//  2. Songs : a catalog search box, the results (tracks already chosen are marked Added) and the selection
//
// Searches run as commands tagged with the session's generation number, so results arriving for an
// outdated query are dropped by [workflow.Session.ApplyResults] instead of replacing newer ones.
// Saving runs through the session's Saver; on success the form clears for the next ticket.
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Keyboard bindings are shown with charmbracelet/bubbles/help.
package ui
