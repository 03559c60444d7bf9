package cloudflare

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dev-shimada/cloud-proxy/internal/route"
	"github.com/dev-shimada/cloud-proxy/internal/upstream"
)

const codeZoneExists = 1061

func zoneRoutes() []route.Descriptor {
	return []route.Descriptor{
		{
			Name:         "list-zones",
			Method:       http.MethodGet,
			Pattern:      "/list-zones",
			UpstreamPath: "/zones",
			ForwardQuery: true,
			Shape:        route.WrapCount("zones"),
		},
		{
			Name:    "add-zone",
			Method:  http.MethodPost,
			Pattern: "/add-zone",
			Fields:  []route.Field{{Name: "domain", Required: true}},
			Exec:    addZone,
			Shape:   zoneWithRecords,
			Overrides: map[int]string{
				codeZoneExists: "Domain already exists",
			},
		},
		{
			Name:         "get-zone",
			Method:       http.MethodGet,
			Pattern:      "/get-zone/{zoneId}",
			UpstreamPath: "/zones/{zoneId}",
			Shape:        route.Wrap("zone"),
		},
		{
			Name:         "delete-zone",
			Method:       http.MethodDelete,
			Pattern:      "/delete-zone/{zoneId}",
			UpstreamPath: "/zones/{zoneId}",
			Shape:        route.Message("Zone deleted successfully"),
		},
		{
			Name:         "check-zone-status",
			Method:       http.MethodGet,
			Pattern:      "/check-zone-status/{zoneId}",
			UpstreamPath: "/zones/{zoneId}",
			Shape:        route.WithParam("zoneId", route.Pluck("status", "status")),
		},
	}
}

type createdZone struct {
	Zone    json.RawMessage `json:"zone"`
	Records json.RawMessage `json:"records"`
}

// addZone creates the zone with a DNS scan and then fetches the records the
// scan found. A rejected create never reaches the second call.
func addZone(ctx context.Context, f route.Forwarder, call *route.Call) (json.RawMessage, error) {
	domain, _ := call.String("domain")

	zone, err := f.Do(ctx, upstream.Request{
		Method: http.MethodPost,
		Path:   "/zones",
		Body: map[string]any{
			"name":       domain,
			"jump_start": true,
		},
	})
	if err != nil {
		return nil, err
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(zone, &created); err != nil || created.ID == "" {
		return nil, upstream.Malformed(http.StatusOK, errors.New("created zone has no id"))
	}

	path, err := route.Expand("/zones/{zoneId}/dns_records", map[string]string{"zoneId": created.ID})
	if err != nil {
		return nil, err
	}
	records, err := f.Do(ctx, upstream.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}

	return json.Marshal(createdZone{Zone: zone, Records: records})
}

func zoneWithRecords(_ *route.Call, payload json.RawMessage) (map[string]any, error) {
	var created createdZone
	if err := json.Unmarshal(payload, &created); err != nil {
		return nil, err
	}
	return map[string]any{
		"zone":    created.Zone,
		"records": created.Records,
	}, nil
}
