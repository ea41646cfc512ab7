// Package httputil provides the HTTP plumbing shared by outbound API clients.
//
//   - [Retry]: retry with exponential backoff for errors marked retryable
//   - [JSONClient]: JSON request/response calls that classify failures into
//     coded errors and mark transient ones as [RetryableError]
//
// Transient failures are network errors, 5xx responses, and 429 rate limit
// responses. Everything else is returned to the caller immediately.
//
//	c := httputil.NewJSONClient(30*time.Second, map[string]string{
//	    "Authorization": "Key " + apiKey,
//	})
//	var out imageResponse
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return c.Post(ctx, url, req, &out)
//	})
package httputil
