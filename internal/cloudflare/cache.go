package cloudflare

import (
	"net/http"

	"github.com/dev-shimada/cloud-proxy/internal/route"
)

var purgeSelectors = []string{"files", "tags", "hosts", "prefixes"}

func cacheRoutes() []route.Descriptor {
	return []route.Descriptor{
		{
			Name:         "purge-cache",
			Method:       http.MethodPost,
			Pattern:      "/purge-cache/{zoneId}",
			UpstreamPath: "/zones/{zoneId}/purge_cache",
			Body:         purgeBody,
			Shape:        route.Wrap("purge"),
		},
	}
}

// purgeBody purges everything unless the caller narrowed the purge down.
func purgeBody(call *route.Call) any {
	body := route.Pick(purgeSelectors...)(call).(map[string]any)
	if len(body) == 0 {
		return map[string]any{"purge_everything": true}
	}
	return body
}
