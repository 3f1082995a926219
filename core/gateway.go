package core

import "context"

// Gateway is the single access point every remote call goes through.
type Gateway interface {
	// Do sends `in` as the JSON body of a request to path (relative to the API base URL)
	// and decodes the response payload into `out`. `in` and `out` may be nil.
	// Every failure is returned as an *APIError.
	Do(ctx context.Context, method, path string, in, out interface{}) error
}
