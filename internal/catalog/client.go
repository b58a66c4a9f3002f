package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Querier is the set of catalog queries the gallery depends on.
// *Client implements it; tests substitute fakes.
type Querier interface {
	FetchRandom(ctx context.Context, count int) ([]ImageRecord, error)
	FetchUserPhotos(ctx context.Context, handle string) ([]ImageRecord, error)
	Search(ctx context.Context, query string, count int) ([]ImageRecord, error)
}

var _ Querier = (*Client)(nil)

const (
	DefaultBaseURL   = "https://api.unsplash.com"
	defaultUserAgent = "shutter/0.1"
	defaultTimeout   = 10 * time.Second
	maxBodyBytes     = 4 << 20

	opRandom = "fetch random"
	opUser   = "fetch user photos"
	opSearch = "search"
)

// Options configure a Client.
type Options struct {
	BaseURL   string
	AccessKey string
	Timeout   time.Duration
	UserAgent string
	Logger    *zerolog.Logger
}

// Client talks to the photo catalog HTTP API.
type Client struct {
	baseURL   *url.URL
	accessKey string
	http      *http.Client
	userAgent string
	log       zerolog.Logger
}

// NewClient builds a Client. An access key is required.
func NewClient(opts Options) (*Client, error) {
	key := strings.TrimSpace(opts.AccessKey)
	if key == "" {
		return nil, fmt.Errorf("access key is required")
	}
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Client{
		baseURL:   base,
		accessKey: key,
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
		log:       logger,
	}, nil
}

// FetchRandom requests count random photos.
func (c *Client) FetchRandom(ctx context.Context, count int) ([]ImageRecord, error) {
	if count <= 0 {
		return nil, invalidArgument(opRandom, "count must be positive, got %d", count)
	}
	values := url.Values{}
	values.Set("count", strconv.Itoa(count))

	var photos photoList
	if err := c.get(ctx, opRandom, &url.URL{Path: "/photos/random"}, values, &photos); err != nil {
		return nil, err
	}
	return c.records(opRandom, photos, count), nil
}

// FetchUserPhotos requests the photo listing of the contributor handle.
func (c *Client) FetchUserPhotos(ctx context.Context, handle string) ([]ImageRecord, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, invalidArgument(opUser, "handle is empty")
	}
	// Dot segments would be collapsed by URL resolution and hit another endpoint.
	if handle == "." || handle == ".." {
		return nil, invalidArgument(opUser, "handle %q is not a contributor name", handle)
	}
	rel := &url.URL{
		Path:    "/users/" + handle + "/photos",
		RawPath: "/users/" + url.PathEscape(handle) + "/photos",
	}

	var photos photoList
	if err := c.get(ctx, opUser, rel, url.Values{}, &photos); err != nil {
		return nil, err
	}
	return c.records(opUser, photos, 0), nil
}

// Search requests up to count photos matching query. The query is forwarded
// verbatim, including when empty.
func (c *Client) Search(ctx context.Context, query string, count int) ([]ImageRecord, error) {
	if count <= 0 {
		return nil, invalidArgument(opSearch, "count must be positive, got %d", count)
	}
	values := url.Values{}
	values.Set("query", query)
	values.Set("per_page", strconv.Itoa(count))

	var payload searchResponse
	if err := c.get(ctx, opSearch, &url.URL{Path: "/search/photos"}, values, &payload); err != nil {
		return nil, err
	}
	return c.records(opSearch, *payload.Results, count), nil
}

func (c *Client) records(op string, photos []photo, limit int) []ImageRecord {
	records, dropped := normalize(photos, limit)
	if dropped > 0 {
		c.log.Debug().
			Str("op", op).
			Int("dropped", dropped).
			Msg("skipped malformed photos")
	}
	return records
}

// payload is a decoded response body that can reject a well-formed but
// unexpected shape, such as null or an error object.
type payload interface {
	validate() error
}

func (c *Client) get(ctx context.Context, op string, rel *url.URL, values url.Values, dest payload) error {
	// Logged before the key is attached.
	logged := rel.EscapedPath()
	if q := values.Encode(); q != "" {
		logged += "?" + q
	}
	values.Set("client_id", c.accessKey)
	withKey := *rel
	withKey.RawQuery = values.Encode()
	reqURL := c.baseURL.ResolveReference(&withKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return &RequestError{Op: op, Kind: ErrNetwork, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Version", "v1")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("url", logged).Msg("request failed")
		return &RequestError{Op: op, Kind: ErrNetwork, Err: stripKey(err, c.accessKey)}
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("url", logged).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Send()

	switch {
	case resp.StatusCode == http.StatusNotFound && op == opUser:
		return &RequestError{Op: op, Status: resp.StatusCode, Kind: ErrNotFound}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &RequestError{Op: op, Status: resp.StatusCode, Kind: ErrNetwork}
	}

	decoder := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	if err := decoder.Decode(dest); err != nil {
		return &RequestError{Op: op, Status: resp.StatusCode, Kind: ErrDecode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if err := dest.validate(); err != nil {
		return &RequestError{Op: op, Status: resp.StatusCode, Kind: ErrDecode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// stripKey removes the access key from transport errors, which embed the
// request URL.
func stripKey(err error, key string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	if key != "" && strings.Contains(err.Error(), key) {
		return errors.New(strings.ReplaceAll(err.Error(), key, "***"))
	}
	return err
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
