package gallery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/shutter/internal/catalog"
)

// DefaultPageSize is the number of photos requested for random and search
// queries.
const DefaultPageSize = 12

var (
	// ErrNoSelection is returned by OpenUserPhotos when no image is selected.
	ErrNoSelection = errors.New("no image selected")
	// ErrNotInGallery is returned when selecting a record that is not displayed.
	ErrNotInGallery = errors.New("image is not in the gallery")
)

// Intent identifies the user action behind a request.
type Intent int

const (
	IntentLoadRandom Intent = iota
	IntentRunSearch
	IntentOpenUserPhotos
)

func (i Intent) String() string {
	switch i {
	case IntentRunSearch:
		return "search"
	case IntentOpenUserPhotos:
		return "user photos"
	default:
		return "random"
	}
}

// Request is a dispatched query waiting to be run.
type Request struct {
	Intent     Intent
	Generation uint64
	Query      string
	Handle     string
	Count      int

	client catalog.Querier
}

// Result is the settled outcome of a Request.
type Result struct {
	Intent     Intent
	Generation uint64
	Handle     string
	Images     []catalog.ImageRecord
	Err        error
}

// Run performs the network call. It is safe to call off the UI loop; it does
// not touch controller state.
func (r Request) Run(ctx context.Context) Result {
	res := Result{Intent: r.Intent, Generation: r.Generation, Handle: r.Handle}
	if r.client == nil {
		res.Err = fmt.Errorf("%s: no catalog client", r.Intent)
		return res
	}
	switch r.Intent {
	case IntentLoadRandom:
		res.Images, res.Err = r.client.FetchRandom(ctx, r.Count)
	case IntentRunSearch:
		res.Images, res.Err = r.client.Search(ctx, r.Query, r.Count)
	case IntentOpenUserPhotos:
		res.Images, res.Err = r.client.FetchUserPhotos(ctx, r.Handle)
	default:
		res.Err = fmt.Errorf("unknown intent %d", r.Intent)
	}
	return res
}

// Options configure a Controller.
type Options struct {
	PageSize int
	Logger   *zerolog.Logger
}

// Controller owns the gallery state and turns intents into catalog queries.
//
// Dispatch methods (LoadRandom, RunSearch, OpenUserPhotos) and Apply must be
// called from a single goroutine; Request.Run may run anywhere.
type Controller struct {
	client   catalog.Querier
	pageSize int
	log      zerolog.Logger
	now      func() time.Time

	state   State
	issued  uint64
	pending int
}

// New creates a controller in its startup state: no images, random mode,
// nothing selected.
func New(client catalog.Querier, opts Options) *Controller {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Controller{
		client:   client,
		pageSize: pageSize,
		log:      logger,
		now:      time.Now,
		state:    State{Mode: ModeRandom},
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	return c.state.clone()
}

// Heading returns the heading for the current state.
func (c *Controller) Heading() string {
	return c.state.Heading()
}

// PageSize returns the count used for random and search queries.
func (c *Controller) PageSize() int {
	return c.pageSize
}

// SetQuery binds the search input text.
func (c *Controller) SetQuery(q string) {
	c.state.PendingQuery = q
}

// LoadRandom dispatches a random-photos query.
func (c *Controller) LoadRandom() Request {
	return c.dispatch(Request{Intent: IntentLoadRandom, Count: c.pageSize})
}

// RunSearch dispatches a search for the pending query and clears it. The
// query is cleared whether or not the search later succeeds.
func (c *Controller) RunSearch() Request {
	query := c.state.PendingQuery
	c.state.PendingQuery = ""
	return c.dispatch(Request{Intent: IntentRunSearch, Query: query, Count: c.pageSize})
}

// OpenUserPhotos closes the detail view and dispatches a listing query for
// the selected image's owner.
func (c *Controller) OpenUserPhotos() (Request, error) {
	if c.state.Selected == nil {
		return Request{}, ErrNoSelection
	}
	handle := c.state.Selected.OwnerHandle
	c.CloseDetail()
	return c.dispatch(Request{Intent: IntentOpenUserPhotos, Handle: handle}), nil
}

// SelectImage opens the detail view for rec, which must be displayed.
func (c *Controller) SelectImage(rec catalog.ImageRecord) error {
	idx := c.state.IndexOf(rec)
	if idx < 0 {
		return ErrNotInGallery
	}
	return c.SelectIndex(idx)
}

// SelectIndex opens the detail view for the image at position i.
func (c *Controller) SelectIndex(i int) error {
	if i < 0 || i >= len(c.state.Images) {
		return ErrNotInGallery
	}
	sel := c.state.Images[i]
	c.state.Selected = &sel
	return nil
}

// CloseDetail clears the selection.
func (c *Controller) CloseDetail() {
	c.state.Selected = nil
}

// ClearNotice dismisses the current notice.
func (c *Controller) ClearNotice() {
	c.state.Notice = Notice{}
}

func (c *Controller) dispatch(req Request) Request {
	c.issued++
	c.pending++
	c.state.Loading = true
	req.Generation = c.issued
	req.client = c.client
	c.log.Debug().
		Str("intent", req.Intent.String()).
		Uint64("generation", req.Generation).
		Msg("dispatch")
	return req
}

// Apply folds a settled result into the state. Results from requests that
// have been superseded by a newer dispatch are discarded. It reports whether
// the result changed the state.
func (c *Controller) Apply(res Result) bool {
	if c.pending > 0 {
		c.pending--
	}
	c.state.Loading = c.pending > 0

	if res.Generation < c.issued {
		c.log.Debug().
			Str("intent", res.Intent.String()).
			Uint64("generation", res.Generation).
			Uint64("latest", c.issued).
			Msg("discarding superseded result")
		return false
	}

	if res.Err != nil {
		c.state.Notice = c.noticeFor(res)
		c.log.Warn().
			Err(res.Err).
			Str("intent", res.Intent.String()).
			Msg("query failed")
		return true
	}

	c.state.Images = cloneImages(res.Images)
	c.state.Notice = Notice{}
	switch res.Intent {
	case IntentLoadRandom:
		c.state.Mode = ModeRandom
		c.state.Selected = nil
	case IntentOpenUserPhotos:
		c.state.Mode = ModeUserFiltered
		c.state.Selected = nil
	}
	c.log.Debug().
		Str("intent", res.Intent.String()).
		Int("images", len(res.Images)).
		Msg("applied")
	return true
}

// Do runs req and applies its result synchronously.
func (c *Controller) Do(ctx context.Context, req Request) Result {
	res := req.Run(ctx)
	c.Apply(res)
	return res
}

func (c *Controller) noticeFor(res Result) Notice {
	n := Notice{Kind: NoticeError, At: c.now()}
	switch {
	case errors.Is(res.Err, catalog.ErrNotFound):
		n.Kind = NoticeNotFound
		n.Message = fmt.Sprintf("No contributor named %q", res.Handle)
	case errors.Is(res.Err, catalog.ErrInvalidArgument):
		n.Message = fmt.Sprintf("Cannot load %s: invalid request", res.Intent)
	case errors.Is(res.Err, catalog.ErrDecode):
		n.Message = fmt.Sprintf("Loading %s photos failed: unexpected catalog response", res.Intent)
	case errors.Is(res.Err, context.Canceled):
		n.Message = fmt.Sprintf("Loading %s photos cancelled", res.Intent)
	default:
		n.Message = fmt.Sprintf("Loading %s photos failed: catalog unreachable", res.Intent)
	}
	return n
}
