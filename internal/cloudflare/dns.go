package cloudflare

import (
	"net/http"

	"github.com/dev-shimada/cloud-proxy/internal/route"
)

const (
	codeRecordExists  = 81057
	codeRecordMissing = 81044
)

// recordFields is the body accepted when creating or replacing a record.
var recordFields = []route.Field{
	{Name: "type", Required: true},
	{Name: "name", Required: true},
	{Name: "content", Required: true},
	{
		Name:    "priority",
		When:    &route.Condition{Field: "type", Equals: "MX"},
		Message: "Priority is required for MX record.",
	},
	{Name: "ttl"},
	{Name: "proxied"},
	{Name: "comment"},
}

func dnsRoutes() []route.Descriptor {
	return []route.Descriptor{
		{
			Name:         "list-records",
			Method:       http.MethodGet,
			Pattern:      "/list-records/{zoneId}",
			UpstreamPath: "/zones/{zoneId}/dns_records",
			ForwardQuery: true,
			Shape:        route.Wrap("records"),
		},
		{
			Name:         "list-dns-records",
			Method:       http.MethodGet,
			Pattern:      "/list-dns-records/{zoneId}",
			UpstreamPath: "/zones/{zoneId}/dns_records",
			ForwardQuery: true,
			Shape:        route.WithParam("zoneId", route.Wrap("dnsRecords")),
		},
		{
			Name:         "get-dns-record",
			Method:       http.MethodGet,
			Pattern:      "/get-dns-record/{zoneId}/{recordId}",
			UpstreamPath: "/zones/{zoneId}/dns_records/{recordId}",
			Shape:        route.Wrap("record"),
			Overrides:    map[int]string{codeRecordMissing: "Record does not exist"},
		},
		{
			Name:         "add-dns-record",
			Method:       http.MethodPost,
			Pattern:      "/add-dns-record/{zoneId}",
			UpstreamPath: "/zones/{zoneId}/dns_records",
			Fields:       recordFields,
			Shape:        route.Wrap("record"),
			Overrides:    map[int]string{codeRecordExists: "Record already exists"},
		},
		{
			Name:         "edit-dns-record",
			Method:       http.MethodPut,
			Pattern:      "/edit-dns-record/{zoneId}/{recordId}",
			UpstreamPath: "/zones/{zoneId}/dns_records/{recordId}",
			Fields:       recordFields,
			Shape:        route.Wrap("record"),
			Overrides: map[int]string{
				codeRecordMissing: "Record does not exist",
				codeRecordExists:  "Record already exists",
			},
		},
		{
			Name:         "delete-dns-record",
			Method:       http.MethodDelete,
			Pattern:      "/delete-dns-record/{zoneId}/{recordId}",
			UpstreamPath: "/zones/{zoneId}/dns_records/{recordId}",
			Shape:        route.Message("Record deleted successfully"),
			Overrides:    map[int]string{codeRecordMissing: "Record does not exist"},
		},
	}
}
