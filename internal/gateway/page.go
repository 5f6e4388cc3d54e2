package gateway

import (
	"net/http"
	"time"
)

// Page is a fetched document plus the delivery facts the pipeline stores
// alongside the parsed content.
type Page struct {
	URL        string
	Html       string
	StatusCode int
	Cookies    []*http.Cookie
	Elapsed    time.Duration
	Attempts   int
}
