// Package workflow holds the client-side state of the ticket form: the set of chosen
// tracks, the latest search results and the two-stage Details → Songs flow that gates saving.
//
// # Selection
//
// [Selection] is an insertion-ordered list of tracks in which no two entries share an ID.
// Adding a track that is already present is a no-op that reports false.
//
// # Stages
//
// A [Session] starts on [StageDetails]. [Session.Advance] and [Session.Retreat] move between
// the stages without touching the selection. [Session.Submit] is allowed from either stage;
// [Session.Skip] only from [StageSongs]. A successful save returns the session to
// [StageDetails] with an empty selection in one step. A failed save changes nothing.
//
// # Stale Results
//
// Every search is tagged with a generation number. [Session.ApplyResults] ignores results
// whose generation is not the latest, so a slow response can never replace the results of a
// newer query. In-flight searches are not cancelled; their results are just dropped.
package workflow
