package ports

import (
	"context"
	"hsforms/internal/types"
)

// Fetcher issues authenticated GET requests against the HubSpot API.
// Implementations MUST NOT return errors or panic: any failure on the way is reported
// as (types.Response{}, false). A received response with a non-200 status is not a
// failure; callers inspect the status themselves.
type Fetcher interface {
	// Fetch requests url with the given bearer token. An empty token means the
	// implementation's configured token.
	Fetch(ctx context.Context, url, token string) (types.Response, bool)
}
