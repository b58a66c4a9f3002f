// Package catalog provides an HTTP client for the remote photo catalog.
//
// # Overview
//
// The client wraps three read-only endpoints of an Unsplash-compatible API
// and normalizes their photo objects into ImageRecord values:
//
//   - GET /photos/random?count=N: FetchRandom
//   - GET /users/{handle}/photos: FetchUserPhotos
//   - GET /search/photos?query=Q&per_page=N: Search
//
// The access key is injected through Options and attached to every request as
// the client_id query parameter. It is never logged.
//
// # Normalization
//
// Photos without a regular URL or an owner username are dropped. A photo
// without a full URL falls back to its regular URL. FetchRandom and Search
// never return more than the requested count.
//
// # Errors
//
// Every failure is a *RequestError whose kind is one of:
//
//   - ErrNetwork: transport failure or non-2xx status
//   - ErrDecode: body is not the expected JSON shape
//   - ErrInvalidArgument: rejected before any request (empty handle, count <= 0)
//   - ErrNotFound: the contributor handle does not exist (HTTP 404)
//
// Use errors.Is to classify:
//
//	records, err := client.FetchUserPhotos(ctx, "alice")
//	if errors.Is(err, catalog.ErrNotFound) {
//		// show "no such contributor"
//	}
//
// The client keeps no state between calls: no caching and no retries.
package catalog
