// Package http provides the HTTP client used to fetch AutoEq documents.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Bounded request timeouts
//   - Conditional GET with ETag revalidation (index caching)
//   - A 404 sentinel (ErrNotFound) so profile fetch fallbacks stay explicit
//
// # Basic Usage
//
//	client := http.NewClient(30 * time.Second)
//
//	// Plain fetch
//	body, err := client.GetString(ctx, url)
//
//	// Conditional fetch for the cached index
//	body, etag, notModified, err := client.GetStringConditional(ctx, indexURL, cachedETag)
package http
