package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const testKey = "test-access-key"

func photoJSON(user string, width int) string {
	return fmt.Sprintf(`{
		"id": "x",
		"urls": {"regular": "https://img.example/%[1]s-r.jpg", "full": "https://img.example/%[1]s-f.jpg"},
		"alt_description": "a photo by %[1]s",
		"width": %[2]d,
		"height": 3000,
		"user": {"username": %[1]q}
	}`, user, width)
}

func photoArray(users ...string) string {
	parts := make([]string, 0, len(users))
	for _, u := range users {
		parts = append(parts, photoJSON(u, 4000))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Options{BaseURL: baseURL, AccessKey: testKey})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	u, err = parseBaseURL("api.example.com")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Host != "api.example.com" {
		t.Fatalf("url = %q, want https://api.example.com", u.String())
	}
}

func TestNewClient_RequiresAccessKey(t *testing.T) {
	if _, err := NewClient(Options{AccessKey: "   "}); err == nil {
		t.Fatalf("NewClient returned nil error, want error for empty key")
	}
}

func TestClient_FetchesEndpointsAndEncodesQueries(t *testing.T) {
	t.Parallel()

	var (
		gotPaths   []string
		gotQueries []url.Values
		gotAgent   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.EscapedPath())
		gotQueries = append(gotQueries, r.URL.Query())
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/photos/random":
			_, _ = w.Write([]byte(photoArray("alice", "bob", "carol")))
		case strings.HasPrefix(r.URL.Path, "/users/"):
			_, _ = w.Write([]byte(photoArray("alice", "alice")))
		case r.URL.Path == "/search/photos":
			_, _ = w.Write([]byte(`{"total": 1, "total_pages": 1, "results": ` + photoArray("dave") + `}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	random, err := c.FetchRandom(ctx, 3)
	if err != nil {
		t.Fatalf("FetchRandom returned error: %v", err)
	}
	if len(random) != 3 || random[0].OwnerHandle != "alice" {
		t.Fatalf("FetchRandom = %#v, want 3 records starting with alice", random)
	}
	if random[0].DisplayURL != "https://img.example/alice-r.jpg" || random[0].FullURL != "https://img.example/alice-f.jpg" {
		t.Fatalf("FetchRandom urls = %q / %q", random[0].DisplayURL, random[0].FullURL)
	}
	if random[0].Description != "a photo by alice" || random[0].Width != 4000 || random[0].Height != 3000 {
		t.Fatalf("FetchRandom record = %#v", random[0])
	}

	user, err := c.FetchUserPhotos(ctx, "al ice/x")
	if err != nil {
		t.Fatalf("FetchUserPhotos returned error: %v", err)
	}
	if len(user) != 2 {
		t.Fatalf("FetchUserPhotos = %d records, want 2", len(user))
	}

	found, err := c.Search(ctx, "mountains", 12)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(found) != 1 || found[0].OwnerHandle != "dave" {
		t.Fatalf("Search = %#v, want 1 record by dave", found)
	}

	if len(gotQueries) != 3 {
		t.Fatalf("server saw %d requests, want 3", len(gotQueries))
	}
	for i, q := range gotQueries {
		if q.Get("client_id") != testKey {
			t.Fatalf("request %d client_id = %q, want %q", i, q.Get("client_id"), testKey)
		}
	}
	if gotQueries[0].Get("count") != "3" {
		t.Fatalf("random count = %q, want 3", gotQueries[0].Get("count"))
	}
	if gotPaths[1] != "/users/al%20ice%2Fx/photos" {
		t.Fatalf("user path = %q, want escaped handle", gotPaths[1])
	}
	if gotQueries[2].Get("query") != "mountains" || gotQueries[2].Get("per_page") != "12" {
		t.Fatalf("search query = %v, want query=mountains per_page=12", gotQueries[2])
	}
	if !strings.HasPrefix(gotAgent, "shutter/") {
		t.Fatalf("User-Agent = %q, want shutter/*", gotAgent)
	}
}

func TestClient_CountBound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		many := photoArray("a", "b", "c", "d", "e")
		if r.URL.Path == "/search/photos" {
			_, _ = w.Write([]byte(`{"results": ` + many + `}`))
			return
		}
		_, _ = w.Write([]byte(many))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)
	for _, n := range []int{1, 2, 5, 10} {
		random, err := c.FetchRandom(context.Background(), n)
		if err != nil {
			t.Fatalf("FetchRandom(%d) returned error: %v", n, err)
		}
		if len(random) > n {
			t.Fatalf("FetchRandom(%d) returned %d records", n, len(random))
		}
		found, err := c.Search(context.Background(), "q", n)
		if err != nil {
			t.Fatalf("Search(%d) returned error: %v", n, err)
		}
		if len(found) > n {
			t.Fatalf("Search(%d) returned %d records", n, len(found))
		}
	}
}

func TestClient_EmptyQuerySearchIsForwarded(t *testing.T) {
	t.Parallel()

	var sawQuery atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.URL.Query()["query"]; ok {
			sawQuery.Store(true)
		}
		_, _ = w.Write([]byte(`{"total": 0, "results": []}`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)
	found, err := c.Search(context.Background(), "", 12)
	if err != nil {
		t.Fatalf("Search(\"\") returned error: %v", err)
	}
	if found == nil || len(found) != 0 {
		t.Fatalf("Search(\"\") = %#v, want empty non-nil slice", found)
	}
	if !sawQuery.Load() {
		t.Fatalf("empty query parameter was not forwarded")
	}
}

func TestClient_EmptyHandleRejectedWithoutRequest(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)
	for _, handle := range []string{"", "   ", ".", " .. "} {
		_, err := c.FetchUserPhotos(context.Background(), handle)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("FetchUserPhotos(%q) error = %v, want ErrInvalidArgument", handle, err)
		}
	}
	if _, err := c.FetchRandom(context.Background(), 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("FetchRandom(0) error = %v, want ErrInvalidArgument", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("server saw %d requests, want 0", hits.Load())
	}
}

func TestClient_ErrorKinds(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/photos/random":
			_, _ = w.Write([]byte("{not-json"))
		case "/search/photos":
			if r.URL.Query().Get("query") == "oauth" {
				_, _ = w.Write([]byte(`{"errors":["OAuth error: The access token is invalid"]}`))
				return
			}
			if r.URL.Query().Get("query") == "nullresults" {
				_, _ = w.Write([]byte(`{"total":0,"total_pages":0,"results":null}`))
				return
			}
			http.Error(w, "nope", http.StatusInternalServerError)
		case "/users/null/photos":
			_, _ = w.Write([]byte(`null`))
		case "/users/ghost/photos":
			http.Error(w, `{"errors":["Couldn't find User"]}`, http.StatusNotFound)
		case "/users/limited/photos":
			http.Error(w, "Rate Limit Exceeded", http.StatusForbidden)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)

	_, err := c.FetchRandom(context.Background(), 3)
	if !errors.Is(err, ErrDecode) || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchRandom error = %v, want ErrDecode", err)
	}

	_, err = c.Search(context.Background(), "x", 3)
	if !errors.Is(err, ErrNetwork) || !strings.Contains(err.Error(), "HTTP 500") {
		t.Fatalf("Search error = %v, want ErrNetwork with status 500", err)
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Status != http.StatusInternalServerError {
		t.Fatalf("Search error = %#v, want *RequestError status 500", err)
	}

	_, err = c.FetchUserPhotos(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("FetchUserPhotos(ghost) error = %v, want ErrNotFound", err)
	}

	_, err = c.FetchUserPhotos(context.Background(), "limited")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("FetchUserPhotos(limited) error = %v, want ErrNetwork", err)
	}

	for _, query := range []string{"oauth", "nullresults"} {
		recs, err := c.Search(context.Background(), query, 3)
		if !errors.Is(err, ErrDecode) || recs != nil {
			t.Fatalf("Search(%q) = %v, %v; want nil records and ErrDecode", query, recs, err)
		}
	}

	recs, err := c.FetchUserPhotos(context.Background(), "null")
	if !errors.Is(err, ErrDecode) || recs != nil {
		t.Fatalf("FetchUserPhotos(null) = %v, %v; want nil records and ErrDecode", recs, err)
	}
}

func TestClient_NullRandomBodyIsDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)
	recs, err := c.FetchRandom(context.Background(), 3)
	if !errors.Is(err, ErrDecode) || recs != nil {
		t.Fatalf("FetchRandom = %v, %v; want nil records and ErrDecode", recs, err)
	}
}

func TestClient_EmptyArrayIsNotAnError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search/photos" {
			_, _ = w.Write([]byte(`{"total":0,"total_pages":0,"results":[]}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)
	if recs, err := c.FetchRandom(context.Background(), 3); err != nil || len(recs) != 0 {
		t.Fatalf("FetchRandom = %v, %v; want empty and nil", recs, err)
	}
	if recs, err := c.Search(context.Background(), "none", 3); err != nil || len(recs) != 0 {
		t.Fatalf("Search = %v, %v; want empty and nil", recs, err)
	}
}

func TestClient_TransportErrorHidesAccessKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	c := newTestClient(t, baseURL)
	_, err := c.FetchRandom(context.Background(), 1)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("FetchRandom error = %v, want ErrNetwork", err)
	}
	if strings.Contains(err.Error(), testKey) {
		t.Fatalf("error %q leaks the access key", err.Error())
	}
}

func TestClient_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchRandom(ctx, 1)
	if !errors.Is(err, ErrNetwork) || !errors.Is(err, context.Canceled) {
		t.Fatalf("FetchRandom error = %v, want ErrNetwork wrapping context.Canceled", err)
	}
}
