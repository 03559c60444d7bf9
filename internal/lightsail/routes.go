package lightsail

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/lightsail"
	"github.com/aws/aws-sdk-go-v2/service/lightsail/types"

	"github.com/dev-shimada/cloud-proxy/internal/route"
)

func (s *Service) Routes() route.Table {
	return route.Table{
		{
			Name:    "lightsail-launch-instance",
			Method:  http.MethodPost,
			Pattern: "/lightsail/launchInstance",
			Fields: []route.Field{
				{Name: "instanceName", Required: true, Message: "Instance name is required."},
				{Name: "blueprintId"},
				{Name: "bundleId"},
				{Name: "availabilityZone"},
			},
			Exec:    s.launchInstance,
			Shape:   launched,
			Failure: "Failed to create instance",
		},
		{
			Name:    "lightsail-get-all-instances",
			Method:  http.MethodGet,
			Pattern: "/lightsail/getAllInstances",
			Exec:    s.getAllInstances,
			Shape:   route.Wrap("instances"),
			Failure: "Failed to get instances",
		},
		{
			Name:    "lightsail-get-instance",
			Method:  http.MethodGet,
			Pattern: "/lightsail/getInstance/{instanceId}",
			Exec:    s.getInstance,
			Shape:   route.Wrap("instanceDetails"),
			Failure: "Failed to get instance details",
		},
	}
}

func (s *Service) launchInstance(ctx context.Context, _ route.Forwarder, call *route.Call) (json.RawMessage, error) {
	name, _ := call.String("instanceName")

	input := &sdk.CreateInstancesInput{
		InstanceNames:    []string{name},
		AvailabilityZone: aws.String(bodyOr(call, "availabilityZone", s.defaults.AvailabilityZone)),
		BlueprintId:      aws.String(bodyOr(call, "blueprintId", s.defaults.BlueprintID)),
		BundleId:         aws.String(bodyOr(call, "bundleId", s.defaults.BundleID)),
		Tags: []types.Tag{
			{Key: aws.String("Name"), Value: aws.String(name)},
		},
	}

	out, err := s.api.CreateInstances(ctx, input)
	if err != nil {
		return nil, classify(err)
	}

	slog.Info("instance created",
		"instance_name", name,
		"blueprint_id", aws.ToString(input.BlueprintId),
		"bundle_id", aws.ToString(input.BundleId),
	)
	return json.Marshal(out.Operations)
}

func (s *Service) getAllInstances(ctx context.Context, _ route.Forwarder, _ *route.Call) (json.RawMessage, error) {
	instances := []types.Instance{}
	input := &sdk.GetInstancesInput{}

	for {
		out, err := s.api.GetInstances(ctx, input)
		if err != nil {
			return nil, classify(err)
		}
		instances = append(instances, out.Instances...)

		if aws.ToString(out.NextPageToken) == "" {
			break
		}
		input = &sdk.GetInstancesInput{PageToken: out.NextPageToken}
	}

	return json.Marshal(instances)
}

func (s *Service) getInstance(ctx context.Context, _ route.Forwarder, call *route.Call) (json.RawMessage, error) {
	out, err := s.api.GetInstanceState(ctx, &sdk.GetInstanceStateInput{
		InstanceName: aws.String(call.Param("instanceId")),
	})
	if err != nil {
		return nil, classify(err)
	}
	return json.Marshal(out.State)
}

func bodyOr(call *route.Call, field, fallback string) string {
	if v, ok := call.String(field); ok {
		return v
	}
	return fallback
}

func launched(_ *route.Call, payload json.RawMessage) (map[string]any, error) {
	return map[string]any{
		"message":    "Instance created successfully",
		"operations": payload,
	}, nil
}
