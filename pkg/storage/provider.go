package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// Provider identifies the S3-compatible storage provider behind the
// configured endpoint.
type Provider string

const (
	ProviderAWS    Provider = "aws"
	ProviderWasabi Provider = "wasabi"
	ProviderR2     Provider = "r2"
)

// Capabilities captures the credential quirks of each provider, keyed by the
// Provider enum rather than string-matched on hostnames at every call site.
type Capabilities struct {
	// SessionToken controls whether the optional X-Amz-Security-Token
	// parameter is signed into presigned URLs. Wasabi rejects it.
	SessionToken bool
	// PathStyle forces path-style addressing for SDK calls.
	PathStyle bool
}

var providerCapabilities = map[Provider]Capabilities{
	ProviderAWS:    {SessionToken: true, PathStyle: false},
	ProviderWasabi: {SessionToken: false, PathStyle: true},
	ProviderR2:     {SessionToken: true, PathStyle: true},
}

// Capabilities returns the capability entry for the provider.
func (p Provider) Capabilities() Capabilities {
	return providerCapabilities[p]
}

// DetectProvider inspects the configured endpoint host once, at construction
// time, and maps it to a provider enum.
func DetectProvider(endpoint string) Provider {
	u, err := url.Parse(endpoint)
	if err != nil {
		return ProviderAWS
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case strings.HasSuffix(host, "wasabisys.com"):
		return ProviderWasabi
	case strings.HasSuffix(host, "r2.cloudflarestorage.com"):
		return ProviderR2
	default:
		return ProviderAWS
	}
}

// Config holds the object-storage connection settings. Absence of any
// mandatory field is a startup-class configuration error.
type Config struct {
	Bucket          string
	Endpoint        string // e.g. "https://s3.us-east-1.amazonaws.com"
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string // optional
	PublicBaseURL   string // optional, for building public object URLs
}

// Validate fails fast before any request is touched. Fatal, non-retryable.
func (c Config) Validate() error {
	var missing []string
	if c.Bucket == "" {
		missing = append(missing, "bucket")
	}
	if c.Endpoint == "" {
		missing = append(missing, "endpoint")
	}
	if c.Region == "" {
		missing = append(missing, "region")
	}
	if c.AccessKeyID == "" {
		missing = append(missing, "access key id")
	}
	if c.SecretAccessKey == "" {
		missing = append(missing, "secret access key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("storage configuration incomplete: missing %s", strings.Join(missing, ", "))
	}
	return nil
}
