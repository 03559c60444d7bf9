package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

const (
	DefaultPort          = 3000
	DefaultCloudflareURL = "https://api.cloudflare.com/client/v4"
	DefaultRegion        = "ap-south-1"
	DefaultBlueprintID   = "amazon_linux_2023"
	DefaultBundleID      = "nano_2_1"
)

type Config struct {
	Port     int
	LogLevel slog.Level

	Cloudflare Cloudflare
	AWS        AWS
	Lightsail  Lightsail

	// UpstreamTimeout of zero keeps the transport defaults.
	UpstreamTimeout time.Duration
}

type Cloudflare struct {
	Email  string
	APIKey string
	APIURL string
}

type AWS struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
}

type Lightsail struct {
	BlueprintID      string
	BundleID         string
	AvailabilityZone string
}

// New returns a viper instance bound to the environment. Keys use dots,
// env vars use underscores: cloudflare.api_key <- CLOUDFLARE_API_KEY.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", DefaultPort)
	v.SetDefault("log_level", "info")
	v.SetDefault("cloudflare.api_url", DefaultCloudflareURL)
	v.SetDefault("upstream.timeout", "0s")
	v.SetDefault("aws.region", DefaultRegion)
	v.SetDefault("lightsail.blueprint_id", DefaultBlueprintID)
	v.SetDefault("lightsail.bundle_id", DefaultBundleID)

	return v
}

// Load reads the configuration from the environment and, when configFile is
// not empty, from that file. Every missing required value is reported.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var errs error
	required := func(key, env string) string {
		value := strings.TrimSpace(v.GetString(key))
		if value == "" {
			errs = multierr.Append(errs, fmt.Errorf("%s is required", env))
		}
		return value
	}

	cfg := &Config{
		Cloudflare: Cloudflare{
			Email:  required("cloudflare.email", "CLOUDFLARE_EMAIL"),
			APIKey: required("cloudflare.api_key", "CLOUDFLARE_API_KEY"),
			APIURL: v.GetString("cloudflare.api_url"),
		},
		AWS: AWS{
			AccessKeyID:     required("aws.access_key_id", "AWS_ACCESS_KEY_ID"),
			SecretAccessKey: required("aws.secret_access_key", "AWS_SECRET_ACCESS_KEY"),
			Region:          v.GetString("aws.region"),
		},
		Lightsail: Lightsail{
			BlueprintID:      v.GetString("lightsail.blueprint_id"),
			BundleID:         v.GetString("lightsail.bundle_id"),
			AvailabilityZone: v.GetString("lightsail.availability_zone"),
		},
	}

	port, err := parsePort(v.GetString("port"))
	if err != nil {
		errs = multierr.Append(errs, err)
	}
	cfg.Port = port

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("invalid LOG_LEVEL: %w", err))
	}

	timeout, err := time.ParseDuration(v.GetString("upstream.timeout"))
	if err != nil || timeout < 0 {
		errs = multierr.Append(errs, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %q", v.GetString("upstream.timeout")))
	}
	cfg.UpstreamTimeout = timeout

	if u, err := url.Parse(cfg.Cloudflare.APIURL); err != nil || !u.IsAbs() {
		errs = multierr.Append(errs, fmt.Errorf("invalid CLOUDFLARE_API_URL: %q", cfg.Cloudflare.APIURL))
	}

	if cfg.AWS.Region == "" {
		errs = multierr.Append(errs, fmt.Errorf("AWS_REGION is required"))
	}
	if cfg.Lightsail.AvailabilityZone == "" {
		cfg.Lightsail.AvailabilityZone = cfg.AWS.Region + "a"
	}

	if errs != nil {
		return nil, errs
	}
	return cfg, nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid PORT: %w", err)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid PORT: %d out of range", port)
	}
	return port, nil
}
