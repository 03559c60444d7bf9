package cloudflare

import (
	"net/http"

	"github.com/dev-shimada/cloud-proxy/internal/route"
)

// zoneSetting pairs the local route slug with the provider's setting id.
type zoneSetting struct {
	slug string
	id   string
}

// Values are forwarded as given. The provider is the only validator of
// the accepted enums (ssl, cache_level, browser_cache_ttl, ...).
var zoneSettings = []zoneSetting{
	{slug: "ssl-settings", id: "ssl"},
	{slug: "min-tls-version", id: "min_tls_version"},
	{slug: "tls-1-3", id: "tls_1_3"},
	{slug: "always-use-https", id: "always_use_https"},
	{slug: "automatic-https-rewrites", id: "automatic_https_rewrites"},
	{slug: "http2", id: "http2"},
	{slug: "http3", id: "http3"},
	{slug: "0-rtt", id: "0rtt"},
	{slug: "brotli", id: "brotli"},
	{slug: "cache-level", id: "cache_level"},
	{slug: "browser-cache-ttl", id: "browser_cache_ttl"},
	{slug: "development-mode", id: "development_mode"},
	{slug: "minify", id: "minify"},
	{slug: "rocket-loader", id: "rocket_loader"},
	{slug: "always-online", id: "always_online"},
	{slug: "ipv6", id: "ipv6"},
	{slug: "websockets", id: "websockets"},
	{slug: "security-level", id: "security_level"},
	{slug: "email-obfuscation", id: "email_obfuscation"},
	{slug: "early-hints", id: "early_hints"},
	{slug: "apo", id: "automatic_platform_optimization"},
}

func settingRoutes() []route.Descriptor {
	table := []route.Descriptor{{
		Name:         "list-settings",
		Method:       http.MethodGet,
		Pattern:      "/list-settings/{zoneId}",
		UpstreamPath: "/zones/{zoneId}/settings",
		Shape:        route.Wrap("settings"),
	}}

	for _, s := range zoneSettings {
		upstreamPath := "/zones/{zoneId}/settings/" + s.id
		table = append(table,
			route.Descriptor{
				Name:         "get-" + s.slug,
				Method:       http.MethodGet,
				Pattern:      "/get-" + s.slug + "/{zoneId}",
				UpstreamPath: upstreamPath,
				Shape:        route.Wrap("setting"),
			},
			route.Descriptor{
				Name:         "change-" + s.slug,
				Method:       http.MethodPatch,
				Pattern:      "/change-" + s.slug + "/{zoneId}",
				UpstreamPath: upstreamPath,
				Fields:       []route.Field{{Name: "value", Required: true}},
				Shape:        route.Wrap("setting"),
			},
		)
	}

	return table
}
