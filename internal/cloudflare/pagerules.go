package cloudflare

import (
	"net/http"

	"github.com/dev-shimada/cloud-proxy/internal/route"
)

func pageRuleRoutes() []route.Descriptor {
	return []route.Descriptor{
		{
			Name:         "list-page-rules",
			Method:       http.MethodGet,
			Pattern:      "/list-page-rules/{zoneId}",
			UpstreamPath: "/zones/{zoneId}/pagerules",
			ForwardQuery: true,
			Shape:        route.Wrap("pageRules"),
		},
		{
			Name:         "get-page-rule",
			Method:       http.MethodGet,
			Pattern:      "/get-page-rule/{zoneId}/{identifier}",
			UpstreamPath: "/zones/{zoneId}/pagerules/{identifier}",
			Shape:        route.Wrap("pageRule"),
		},
		{
			Name:         "create-page-rule",
			Method:       http.MethodPost,
			Pattern:      "/create-page-rule/{zoneId}",
			UpstreamPath: "/zones/{zoneId}/pagerules",
			Fields: []route.Field{
				{Name: "targets", Required: true},
				{Name: "actions", Required: true},
				{Name: "priority"},
				{Name: "status"},
			},
			Shape: route.Wrap("pageRule"),
		},
		{
			Name:         "edit-page-rule",
			Method:       http.MethodPatch,
			Pattern:      "/edit-page-rule/{zoneId}/{identifier}",
			UpstreamPath: "/zones/{zoneId}/pagerules/{identifier}",
			Fields: []route.Field{
				{Name: "targets"},
				{Name: "actions"},
				{Name: "priority"},
				{Name: "status"},
			},
			Shape: route.Wrap("pageRule"),
		},
		{
			Name:         "delete-page-rule",
			Method:       http.MethodDelete,
			Pattern:      "/delete-page-rule/{zoneId}/{identifier}",
			UpstreamPath: "/zones/{zoneId}/pagerules/{identifier}",
			Shape:        route.Message("Page rule deleted successfully"),
		},
	}
}
