package di

import (
	"net/http"

	infrahttp "dbmonitor/internal/platform/http"
)

// NewFetchClient creates the HTTP client used by the resource fetcher.
// FETCH_TIMEOUT is optional; without it requests are bounded only by the caller's context.
func NewFetchClient() *http.Client {
	return infrahttp.NewHTTPClient(infrahttp.LoadClientConfig())
}
