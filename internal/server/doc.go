// Package server provides the HTTP API behind `setlist serve`.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [BasicRouter] registers handlers on an [http.ServeMux] using method patterns and wraps each one in
// the middleware stack; the first middleware added is the outermost. [NewRouter] installs
// [Logging] and [Recover].
//
// # Handlers
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// so a handler can own several patterns.
//
//	GET    /api/deezer-search?q=  aggregated catalog search, {"data": [...]}      ([SearchHandler])
//	POST   /data                  create a ticket (201)                            ([TicketHandler])
//	GET    /data                  first 100 tickets
//	GET    /data/{id}             one ticket
//	PUT    /data/{id}             replace a ticket
//	DELETE /data/{id}             delete a ticket, returning it
//	GET    /search?terms=         up to 10 tickets whose concert name contains terms
//
// Errors are JSON objects of the form {"error": "...", "details": "..."}.
// Unknown ticket IDs are 404s and malformed bodies 400s; everything else is a 500.
//
// # Lifecycle
//
// [Server.Run] serves until its context is cancelled and then shuts down gracefully, waiting up to
// [ShutdownTimeout] for in-flight requests.
package server
