package apiclient

import (
	"context"
	"net/http"
)

// DoJSON executes req and decodes the response body into T.
func DoJSON[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var out T
	resp, err := c.Do(ctx, req)
	if err != nil {
		return out, err
	}
	if err := resp.Decode(&out); err != nil {
		return out, unknownError(err)
	}
	return out, nil
}

// Get issues a GET request and decodes the response data.
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	return DoJSON[T](ctx, c, Request{Method: http.MethodGet, Path: path})
}

// BearerToken returns a hook that sets the Authorization header from token.
// Empty tokens leave the request unchanged.
func BearerToken(token func(context.Context) string) RequestHook {
	return func(r *http.Request) error {
		if token == nil {
			return nil
		}
		if value := token(r.Context()); value != "" {
			r.Header.Set("Authorization", "Bearer "+value)
		}
		return nil
	}
}
