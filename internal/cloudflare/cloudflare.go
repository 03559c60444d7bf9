// Package cloudflare declares the local routes served on top of the
// Cloudflare v4 API.
package cloudflare

import (
	"net/http"

	"github.com/dev-shimada/cloud-proxy/internal/route"
	"github.com/dev-shimada/cloud-proxy/internal/upstream"
)

const (
	headerEmail = "X-Auth-Email"
	headerKey   = "X-Auth-Key"
)

type Credentials struct {
	Email  string
	APIKey string
}

// NewClient returns an upstream client that injects the account headers on
// every call.
func NewClient(baseURL string, creds Credentials, hc *http.Client) (*upstream.Client, error) {
	return upstream.New(baseURL,
		upstream.WithHTTPClient(hc),
		upstream.WithHeader(headerEmail, creds.Email),
		upstream.WithHeader(headerKey, creds.APIKey),
	)
}

func Routes() route.Table {
	var table route.Table
	table = append(table, zoneRoutes()...)
	table = append(table, dnsRoutes()...)
	table = append(table, settingRoutes()...)
	table = append(table, cacheRoutes()...)
	table = append(table, pageRuleRoutes()...)
	return table
}
