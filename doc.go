// Package searchdeck provides a Go client for a document-search service:
// semantic search, document CRUD, cookie-based sessions, and the
// client-side state that goes with them (search history, notifications,
// theme and view state).
//
//	client, _ := searchdeck.New(ctx,
//	    searchdeck.WithBaseURL("http://localhost:8080"),
//	    searchdeck.WithSQLiteState("~/.config/searchdeck/state.db"),
//	)
//	defer client.Close()
//
//	res := client.Login(ctx, "admin", "admin")
//	if res.OK {
//	    results, _ := client.Search(ctx, "kubernetes", searchdeck.SearchParams{})
//	    _ = results
//	}
//
// Searches record their query in a bounded, persisted history; document
// mutations re-fetch the collection and raise notifications. All remote
// failures come back classified: sentinel errors for transport-level
// problems, *HTTPError for non-2xx answers.
package searchdeck
