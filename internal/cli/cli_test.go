package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-shimada/cloud-proxy/internal/config"
)

func executeCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestRoutesCommandListsTable(t *testing.T) {
	stdout, err := executeCLI(t, "routes")
	require.NoError(t, err)

	assert.Contains(t, stdout, "METHOD")
	assert.Contains(t, stdout, "/change-ssl-settings/{zoneId}")
	assert.Contains(t, stdout, "PATCH /zones/{zoneId}/settings/ssl")
	assert.Contains(t, stdout, "/lightsail/getAllInstances")
}

func TestVersionCommand(t *testing.T) {
	stdout, err := executeCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", stdout)
}

func TestServeFailsFastWithoutCredentials(t *testing.T) {
	for _, key := range []string{"CLOUDFLARE_EMAIL", "CLOUDFLARE_API_KEY", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	_, err := executeCLI(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
	assert.Contains(t, err.Error(), "CLOUDFLARE_EMAIL is required")
	assert.Contains(t, err.Error(), "AWS_SECRET_ACCESS_KEY is required")
}

func TestUnknownCommand(t *testing.T) {
	_, err := executeCLI(t, "deploy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command \"deploy\"")
}

func TestBuildHandler(t *testing.T) {
	cfg := &config.Config{
		Port: 3000,
		Cloudflare: config.Cloudflare{
			Email:  "ops@example.com",
			APIKey: "cf-key",
			APIURL: config.DefaultCloudflareURL,
		},
		AWS: config.AWS{
			AccessKeyID:     "AKIAEXAMPLE",
			SecretAccessKey: "secret",
			Region:          config.DefaultRegion,
		},
		Lightsail: config.Lightsail{
			BlueprintID:      config.DefaultBlueprintID,
			BundleID:         config.DefaultBundleID,
			AvailabilityZone: "ap-south-1a",
		},
	}

	h, err := buildHandler(cfg, prometheus.NewRegistry())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/add-dns-record/zone-1", bytes.NewBufferString(`{"type":"MX","name":"@","content":"mx.example.com"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{name: "no upstream timeout", timeout: 0, want: 0},
		{name: "write deadline outlasts upstream budget", timeout: 10 * time.Second, want: 10*time.Second + writeGrace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := writeTimeout(&config.Config{UpstreamTimeout: tt.timeout})
			assert.Equal(t, tt.want, got)
			if tt.timeout > 0 {
				assert.Greater(t, got, tt.timeout)
			}
		})
	}
}
