// Package lightsail exposes instance management routes backed by the AWS
// Lightsail SDK.
package lightsail

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/lightsail"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/dev-shimada/cloud-proxy/internal/upstream"
)

type API interface {
	CreateInstances(ctx context.Context, params *sdk.CreateInstancesInput, optFns ...func(*sdk.Options)) (*sdk.CreateInstancesOutput, error)
	GetInstances(ctx context.Context, params *sdk.GetInstancesInput, optFns ...func(*sdk.Options)) (*sdk.GetInstancesOutput, error)
	GetInstanceState(ctx context.Context, params *sdk.GetInstanceStateInput, optFns ...func(*sdk.Options)) (*sdk.GetInstanceStateOutput, error)
}

type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

// NewClient builds a process-wide SDK client with static credentials. Every
// operation is attempted exactly once.
func NewClient(region string, creds Credentials) *sdk.Client {
	return sdk.New(sdk.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, "")),
		Retryer:     aws.NopRetryer{},
	})
}

// Defaults are applied to launch requests that do not choose their own.
type Defaults struct {
	BlueprintID      string
	BundleID         string
	AvailabilityZone string
}

type Service struct {
	api      API
	defaults Defaults
}

func NewService(api API, defaults Defaults) *Service {
	return &Service{
		api:      api,
		defaults: defaults,
	}
}

// classify maps SDK failures onto the same variants as the HTTP forwarder.
func classify(err error) error {
	var respErr *smithyhttp.ResponseError
	hasResponse := errors.As(err, &respErr)

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		status := 0
		if hasResponse {
			status = respErr.HTTPStatusCode()
		}
		return &upstream.Error{
			Kind:    upstream.KindRejected,
			Status:  status,
			Message: apiErr.ErrorMessage(),
			Details: map[string]any{
				"code":    apiErr.ErrorCode(),
				"message": apiErr.ErrorMessage(),
				"fault":   apiErr.ErrorFault().String(),
			},
			Err: err,
		}
	}

	if hasResponse {
		return upstream.Malformed(respErr.HTTPStatusCode(), err)
	}
	return upstream.Unreachable(err)
}
