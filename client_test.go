package searchdeck

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/kailas-cloud/searchdeck/internal/apitest"
	"github.com/kailas-cloud/searchdeck/internal/clock"
)

func newTestClient(t *testing.T, srv *apitest.Server, extra ...Option) *Client {
	t.Helper()
	opts := append([]Option{WithBaseURL(srv.URL)}, extra...)
	c, err := New(context.Background(), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNew_UnknownBaseURL(t *testing.T) {
	_, err := New(context.Background(), WithBaseURL("not a url"))
	if err == nil {
		t.Fatal("New() with a relative base URL must fail")
	}
}

func TestClient_SearchFlow(t *testing.T) {
	srv := apitest.New(t)
	srv.SeedDocument("Kubernetes intro", "Pods, services and deployments explained.", nil)
	c := newTestClient(t, srv)
	ctx := context.Background()

	results, err := c.Search(ctx, "kubernetes", SearchParams{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Title != "Kubernetes intro" {
		t.Fatalf("results = %+v", results)
	}

	st := c.View()
	if len(st.Results) != 1 || st.LastQuery != "kubernetes" {
		t.Fatalf("view state = %+v, want committed results", st)
	}
	if got := c.History(); len(got) != 1 || got[0] != "kubernetes" {
		t.Fatalf("history = %v", got)
	}

	notes := c.Notifications()
	if len(notes) != 1 || notes[0].Message != "Found 1 results" {
		t.Fatalf("notifications = %+v", notes)
	}
}

func TestClient_EmptyQuery(t *testing.T) {
	srv := apitest.New(t)
	c := newTestClient(t, srv)

	_, err := c.Search(context.Background(), "   ", SearchParams{})
	if !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("error = %v, want ErrEmptyQuery", err)
	}
}

func TestClient_DocumentLifecycle(t *testing.T) {
	srv := apitest.New(t)
	c := newTestClient(t, srv)
	ctx := context.Background()

	res := c.Login(ctx, "admin", "admin")
	if !res.OK {
		t.Fatalf("login result = %+v", res)
	}

	in := DocumentInput{Title: "Release notes", Content: "Everything that changed this cycle."}
	if err := c.CreateDocument(ctx, in); err != nil {
		t.Fatalf("CreateDocument() error = %v", err)
	}
	st := c.View()
	if len(st.Documents) != 1 {
		t.Fatalf("documents = %+v, want the created one", st.Documents)
	}
	id := st.Documents[0].ID

	if !c.EditDocument(id) {
		t.Fatal("EditDocument() must find the created document")
	}
	in.Title = "Release notes v2"
	if err := c.SaveDocument(ctx, in); err != nil {
		t.Fatalf("SaveDocument() error = %v", err)
	}
	if got := c.View().Documents[0].Title; got != "Release notes v2" {
		t.Fatalf("title after update = %q", got)
	}

	if err := c.DeleteDocument(ctx, id, false); !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("unconfirmed delete error = %v, want ErrConfirmationRequired", err)
	}
	if err := c.DeleteDocument(ctx, id, true); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}
	if got := c.View().Documents; len(got) != 0 {
		t.Fatalf("documents after delete = %+v", got)
	}
	if got := srv.Documents(); len(got) != 0 {
		t.Fatalf("server documents after delete = %+v", got)
	}
}

func TestClient_DeleteRequiresAuthentication(t *testing.T) {
	srv := apitest.New(t)
	doc := srv.SeedDocument("Keep me", "Protected from anonymous deletion.", nil)
	c := newTestClient(t, srv)

	err := c.DeleteDocument(context.Background(), doc.ID, true)
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("error = %v, want ErrNotAuthenticated", err)
	}
}

func TestClient_CreateDocumentValidation(t *testing.T) {
	srv := apitest.New(t)
	c := newTestClient(t, srv)

	err := c.CreateDocument(context.Background(), DocumentInput{Title: "ab", Content: "short"})
	if err == nil {
		t.Fatal("CreateDocument() with invalid input must fail")
	}
	if !IsValidationError(err) {
		t.Fatalf("error = %v, want a validation error", err)
	}
	if got := srv.Documents(); len(got) != 0 {
		t.Fatalf("server documents = %+v, nothing must be sent for invalid input", got)
	}
}

func TestClient_LoginBadCredentials(t *testing.T) {
	srv := apitest.New(t)
	c := newTestClient(t, srv)

	res := c.Login(context.Background(), "admin", "wrong")
	if res.OK {
		t.Fatal("login with bad credentials must not report OK")
	}
	if res.Reason == "" {
		t.Fatal("failed login must carry a reason")
	}
	if c.Session().IsAuthenticated {
		t.Fatal("session must stay anonymous")
	}
}

func TestClient_SessionRefreshAndLogout(t *testing.T) {
	srv := apitest.New(t)
	c := newTestClient(t, srv)
	ctx := context.Background()

	snap := c.RefreshSession(ctx)
	if snap.State != SessionAnonymous {
		t.Fatalf("state before login = %q", snap.State)
	}

	c.Login(ctx, "admin", "admin")
	snap = c.RefreshSession(ctx)
	if snap.State != SessionAuthenticated || snap.User == nil {
		t.Fatalf("state after login = %+v", snap)
	}

	c.Logout(ctx)
	if c.Session().State != SessionAnonymous {
		t.Fatalf("state after logout = %q", c.Session().State)
	}
}

func TestClient_NotificationsExpire(t *testing.T) {
	srv := apitest.New(t)
	fake := clock.NewFake()
	c := newTestClient(t, srv, WithClock(fake))

	if _, err := c.Search(context.Background(), "anything", SearchParams{}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(c.Notifications()) != 1 {
		t.Fatalf("notifications = %+v, want one", c.Notifications())
	}

	fake.Advance(5 * time.Second)
	if got := c.Notifications(); len(got) != 0 {
		t.Fatalf("notifications after TTL = %+v, want none", got)
	}
}

func TestClient_ThemePersistsAcrossClients(t *testing.T) {
	srv := apitest.New(t)
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	first := newTestClient(t, srv, WithSQLiteState(path))
	if !first.ToggleDarkMode(ctx) {
		t.Fatal("ToggleDarkMode() must report dark")
	}
	first.Close()

	second := newTestClient(t, srv, WithSQLiteState(path))
	if !second.View().DarkMode {
		t.Fatal("a fresh client must restore the persisted theme")
	}
}

func TestClient_HistoryPersistsAcrossClients(t *testing.T) {
	srv := apitest.New(t)
	srv.SeedDocument("Kubernetes intro", "Pods and services.", nil)
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	first := newTestClient(t, srv, WithSQLiteState(path))
	if _, err := first.Search(ctx, "kubernetes", SearchParams{}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	first.Close()

	second := newTestClient(t, srv, WithSQLiteState(path))
	if got := second.History(); len(got) != 1 || got[0] != "kubernetes" {
		t.Fatalf("rehydrated history = %v", got)
	}
}
