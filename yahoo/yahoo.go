// Package yahoo fetches market data from the Yahoo Finance JSON endpoints.
//
// The endpoints are not an official API. The shapes below were observed on
// query1.finance.yahoo.com and can change without notice, so parsing is kept
// deliberately tolerant. All requests go through a daily disk cache to stay
// polite with the upstream servers.
package yahoo

import "net/http"

const defaultBase = "https://query1.finance.yahoo.com"

// Client queries the Yahoo Finance endpoints.
type Client struct {
	http *http.Client
	base string
}

// NewClient returns a client whose responses are cached on disk for the day.
func NewClient() *Client {
	return &Client{http: daily(), base: defaultBase}
}
