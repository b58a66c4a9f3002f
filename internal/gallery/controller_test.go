package gallery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/five82/shutter/internal/catalog"
)

type fakeQuerier struct {
	random  []catalog.ImageRecord
	user    map[string][]catalog.ImageRecord
	search  map[string][]catalog.ImageRecord
	err     error
	calls   []string
	counts  []int
	queries []string
}

func (f *fakeQuerier) FetchRandom(_ context.Context, count int) ([]catalog.ImageRecord, error) {
	f.calls = append(f.calls, "random")
	f.counts = append(f.counts, count)
	if f.err != nil {
		return nil, f.err
	}
	return f.random, nil
}

func (f *fakeQuerier) FetchUserPhotos(_ context.Context, handle string) ([]catalog.ImageRecord, error) {
	f.calls = append(f.calls, "user:"+handle)
	if f.err != nil {
		return nil, f.err
	}
	imgs, ok := f.user[handle]
	if !ok {
		return nil, &catalog.RequestError{Op: "fetch user photos", Status: 404, Kind: catalog.ErrNotFound}
	}
	return imgs, nil
}

func (f *fakeQuerier) Search(_ context.Context, query string, count int) ([]catalog.ImageRecord, error) {
	f.calls = append(f.calls, "search")
	f.counts = append(f.counts, count)
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.search[query], nil
}

func rec(owner string, n int) catalog.ImageRecord {
	return catalog.ImageRecord{
		DisplayURL:  fmt.Sprintf("https://img/%s/%d", owner, n),
		FullURL:     fmt.Sprintf("https://img/%s/%d/full", owner, n),
		Description: fmt.Sprintf("%s #%d", owner, n),
		Width:       4000,
		Height:      3000,
		OwnerHandle: owner,
	}
}

func newFixture() (*Controller, *fakeQuerier) {
	q := &fakeQuerier{
		random: []catalog.ImageRecord{rec("alice", 1), rec("bob", 1), rec("carol", 1)},
		user: map[string][]catalog.ImageRecord{
			"alice": {rec("alice", 2), rec("alice", 3)},
		},
		search: map[string][]catalog.ImageRecord{},
	}
	return New(q, Options{PageSize: 3}), q
}

func TestNew_StartupState(t *testing.T) {
	c, _ := newFixture()
	s := c.Snapshot()
	if len(s.Images) != 0 || s.Mode != ModeRandom || s.Selected != nil || s.Loading {
		t.Fatalf("startup state = %#v", s)
	}
	if New(nil, Options{}).PageSize() != DefaultPageSize {
		t.Fatalf("default page size not applied")
	}
}

func TestScenarioA_LoadRandom(t *testing.T) {
	c, q := newFixture()

	c.Do(context.Background(), c.LoadRandom())

	s := c.Snapshot()
	if len(s.Images) != 3 {
		t.Fatalf("images = %d, want 3", len(s.Images))
	}
	if s.Mode != ModeRandom {
		t.Fatalf("mode = %v, want random", s.Mode)
	}
	if got := c.Heading(); got != "" {
		t.Fatalf("heading = %q, want empty", got)
	}
	if q.counts[0] != 3 {
		t.Fatalf("random count = %d, want page size 3", q.counts[0])
	}
	if s.Loading {
		t.Fatalf("Loading = true after settle")
	}
}

func TestScenarioB_OpenUserPhotos(t *testing.T) {
	c, q := newFixture()
	c.Do(context.Background(), c.LoadRandom())

	first := c.Snapshot().Images[0]
	if err := c.SelectImage(first); err != nil {
		t.Fatalf("SelectImage: %v", err)
	}
	req, err := c.OpenUserPhotos()
	if err != nil {
		t.Fatalf("OpenUserPhotos: %v", err)
	}
	if req.Handle != "alice" {
		t.Fatalf("handle = %q, want alice", req.Handle)
	}
	if c.Snapshot().Selected != nil {
		t.Fatalf("selection should be cleared on dispatch")
	}
	c.Do(context.Background(), req)

	s := c.Snapshot()
	if len(s.Images) != 2 {
		t.Fatalf("images = %d, want 2", len(s.Images))
	}
	if s.Mode != ModeUserFiltered {
		t.Fatalf("mode = %v, want user", s.Mode)
	}
	if s.Selected != nil {
		t.Fatalf("selected = %#v, want nil", s.Selected)
	}
	if got := c.Heading(); got != "alice photos" {
		t.Fatalf("heading = %q, want %q", got, "alice photos")
	}
	if q.calls[len(q.calls)-1] != "user:alice" {
		t.Fatalf("calls = %v", q.calls)
	}
}

func TestScenarioC_EmptySearch(t *testing.T) {
	c, q := newFixture()
	c.SetQuery("mountains")

	res := c.Do(context.Background(), c.RunSearch())
	if res.Err != nil {
		t.Fatalf("search returned error: %v", res.Err)
	}

	s := c.Snapshot()
	if len(s.Images) != 0 {
		t.Fatalf("images = %#v, want empty", s.Images)
	}
	if s.PendingQuery != "" {
		t.Fatalf("PendingQuery = %q, want cleared", s.PendingQuery)
	}
	if !s.Notice.Empty() {
		t.Fatalf("notice = %#v, want none", s.Notice)
	}
	if q.queries[0] != "mountains" {
		t.Fatalf("query = %q, want mountains", q.queries[0])
	}
}

func TestRunSearch_EmptyQueryIsDispatched(t *testing.T) {
	c, q := newFixture()
	res := c.Do(context.Background(), c.RunSearch())
	if errors.Is(res.Err, catalog.ErrInvalidArgument) {
		t.Fatalf("empty search rejected: %v", res.Err)
	}
	if len(q.queries) != 1 || q.queries[0] != "" {
		t.Fatalf("queries = %q, want one empty query", q.queries)
	}
}

func TestRunSearch_FailureStillClearsQuery(t *testing.T) {
	c, q := newFixture()
	c.Do(context.Background(), c.LoadRandom())
	before := c.Snapshot().Images

	q.err = &catalog.RequestError{Op: "search", Status: 500, Kind: catalog.ErrNetwork}
	c.SetQuery("lakes")
	c.Do(context.Background(), c.RunSearch())

	s := c.Snapshot()
	if s.PendingQuery != "" {
		t.Fatalf("PendingQuery = %q, want cleared", s.PendingQuery)
	}
	if !reflect.DeepEqual(s.Images, before) {
		t.Fatalf("images changed on failure")
	}
	if s.Notice.Kind != NoticeError {
		t.Fatalf("notice = %#v, want error notice", s.Notice)
	}
}

func TestLoadRandom_FailureIsolation(t *testing.T) {
	c, q := newFixture()
	c.Do(context.Background(), c.LoadRandom())
	before := c.Snapshot()

	q.err = &catalog.RequestError{Op: "fetch random", Kind: catalog.ErrNetwork, Err: errors.New("dial tcp: refused")}
	res := c.Do(context.Background(), c.LoadRandom())
	if res.Err == nil {
		t.Fatalf("expected failure result")
	}

	after := c.Snapshot()
	if !reflect.DeepEqual(after.Images, before.Images) {
		t.Fatalf("images changed on failure: %#v", after.Images)
	}
	if after.Notice.Kind != NoticeError || !strings.Contains(after.Notice.Message, "unreachable") {
		t.Fatalf("notice = %#v, want unreachable error", after.Notice)
	}

	// A later success clears the notice.
	q.err = nil
	c.Do(context.Background(), c.LoadRandom())
	if !c.Snapshot().Notice.Empty() {
		t.Fatalf("notice not cleared by success")
	}
}

func TestRunSearch_ErrorShapedBodyKeepsImages(t *testing.T) {
	search := ""
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search/photos" {
			_, _ = w.Write([]byte(search))
			return
		}
		_, _ = w.Write([]byte(`[{"urls":{"regular":"https://img/r","full":"https://img/f"},"width":4000,"height":3000,"user":{"username":"alice"}}]`))
	}))
	t.Cleanup(server.Close)

	client, err := catalog.NewClient(catalog.Options{BaseURL: server.URL, AccessKey: "k"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c := New(client, Options{})
	c.Do(context.Background(), c.LoadRandom())
	before := c.Snapshot().Images
	if len(before) != 1 {
		t.Fatalf("setup loaded %d images, want 1", len(before))
	}

	for _, body := range []string{`{"errors":["OAuth error: The access token is invalid"]}`, `{"results":null}`} {
		search = body
		c.SetQuery("mountains")
		res := c.Do(context.Background(), c.RunSearch())
		if !errors.Is(res.Err, catalog.ErrDecode) {
			t.Fatalf("body %s: Err = %v, want ErrDecode", body, res.Err)
		}
		s := c.Snapshot()
		if !reflect.DeepEqual(s.Images, before) {
			t.Fatalf("body %s: images changed to %#v", body, s.Images)
		}
		if s.Notice.Kind != NoticeError {
			t.Fatalf("body %s: notice = %#v, want error notice", body, s.Notice)
		}
	}
}

func TestOpenUserPhotos_NotFound(t *testing.T) {
	c, _ := newFixture()
	c.Do(context.Background(), c.LoadRandom())
	before := c.Snapshot()

	if err := c.SelectIndex(1); err != nil { // bob has no listing in the fake
		t.Fatalf("SelectIndex: %v", err)
	}
	req, err := c.OpenUserPhotos()
	if err != nil {
		t.Fatalf("OpenUserPhotos: %v", err)
	}
	c.Do(context.Background(), req)

	s := c.Snapshot()
	if s.Notice.Kind != NoticeNotFound || !strings.Contains(s.Notice.Message, `"bob"`) {
		t.Fatalf("notice = %#v, want not-found for bob", s.Notice)
	}
	if s.Mode != ModeRandom {
		t.Fatalf("mode = %v, want unchanged random", s.Mode)
	}
	if !reflect.DeepEqual(s.Images, before.Images) {
		t.Fatalf("images changed on failure")
	}
}

func TestOpenUserPhotos_RequiresSelection(t *testing.T) {
	c, q := newFixture()
	if _, err := c.OpenUserPhotos(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("err = %v, want ErrNoSelection", err)
	}
	if len(q.calls) != 0 {
		t.Fatalf("calls = %v, want none", q.calls)
	}
}

func TestSelectImage_Containment(t *testing.T) {
	c, _ := newFixture()
	c.Do(context.Background(), c.LoadRandom())

	if err := c.SelectImage(rec("mallory", 9)); !errors.Is(err, ErrNotInGallery) {
		t.Fatalf("err = %v, want ErrNotInGallery", err)
	}
	if c.Snapshot().Selected != nil {
		t.Fatalf("foreign record was accepted into selection")
	}
	if err := c.SelectIndex(7); !errors.Is(err, ErrNotInGallery) {
		t.Fatalf("SelectIndex out of range err = %v", err)
	}

	if err := c.SelectImage(rec("carol", 1)); err != nil {
		t.Fatalf("SelectImage: %v", err)
	}
	if sel := c.Snapshot().Selected; sel == nil || sel.OwnerHandle != "carol" {
		t.Fatalf("selected = %#v, want carol", sel)
	}
	c.CloseDetail()
	if c.Snapshot().Selected != nil {
		t.Fatalf("CloseDetail did not clear selection")
	}
}

func TestLoadRandom_ClosesDetail(t *testing.T) {
	c, _ := newFixture()
	c.Do(context.Background(), c.LoadRandom())
	_ = c.SelectIndex(0)
	c.Do(context.Background(), c.LoadRandom())
	if c.Snapshot().Selected != nil {
		t.Fatalf("selection should be cleared by the home action")
	}
}

func TestApply_DiscardsSupersededResults(t *testing.T) {
	c, q := newFixture()
	q.search["old"] = []catalog.ImageRecord{rec("old", 1)}

	c.SetQuery("old")
	first := c.RunSearch()
	second := c.LoadRandom()
	if !c.Snapshot().Loading {
		t.Fatalf("Loading = false with requests outstanding")
	}

	newer := second.Run(context.Background())
	older := first.Run(context.Background())

	if !c.Apply(newer) {
		t.Fatalf("newest result was discarded")
	}
	if c.Apply(older) {
		t.Fatalf("superseded result was applied")
	}

	s := c.Snapshot()
	if len(s.Images) != 3 || s.Images[0].OwnerHandle != "alice" {
		t.Fatalf("images = %#v, want the random set", s.Images)
	}
	if s.Loading {
		t.Fatalf("Loading = true after both settled")
	}
}

func TestApply_SupersededFailureIsSilent(t *testing.T) {
	c, _ := newFixture()
	stale := c.LoadRandom()
	fresh := c.LoadRandom()

	c.Apply(Result{Intent: stale.Intent, Generation: stale.Generation, Err: errors.New("boom")})
	if !c.Snapshot().Notice.Empty() {
		t.Fatalf("stale failure produced a notice")
	}
	c.Do(context.Background(), fresh)
	if len(c.Snapshot().Images) != 3 {
		t.Fatalf("fresh result not applied")
	}
}

func TestSnapshot_IsIndependent(t *testing.T) {
	c, _ := newFixture()
	c.Do(context.Background(), c.LoadRandom())
	_ = c.SelectIndex(0)

	snap := c.Snapshot()
	snap.Images[0].OwnerHandle = "mutated"
	snap.Selected.OwnerHandle = "mutated"

	again := c.Snapshot()
	if again.Images[0].OwnerHandle != "alice" || again.Selected.OwnerHandle != "alice" {
		t.Fatalf("Snapshot shares memory with controller state")
	}
}

func TestRequest_RunWithoutClient(t *testing.T) {
	res := Request{Intent: IntentLoadRandom}.Run(context.Background())
	if res.Err == nil {
		t.Fatalf("expected error without client")
	}
}
