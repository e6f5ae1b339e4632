package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	signingAlgorithm = "AWS4-HMAC-SHA256"
	unsignedPayload  = "UNSIGNED-PAYLOAD"
	serviceName      = "s3"

	// PresignTTL is the fixed validity window of a presigned upload URL.
	PresignTTL = 15 * time.Minute
)

// PresignedPut is a time-boxed, single-purpose storage-write grant. The URL
// authorizes exactly one method, key, content type and expiry window; any
// mutation invalidates the signature.
type PresignedPut struct {
	URL         string
	Key         string
	Bucket      string
	ContentType string
	Headers     map[string]string
	ExpiresAt   time.Time
}

// Presigner computes version-4 style request signatures (query-string
// variant) so clients can PUT bytes directly to object storage without ever
// seeing long-lived credentials.
type Presigner struct {
	cfg      Config
	provider Provider
	scheme   string
	host     string
	now      func() time.Time
}

// NewPresigner validates the storage configuration and resolves the provider
// capability entry once. A missing mandatory field fails here, before any
// request is touched.
func NewPresigner(cfg Config) (*Presigner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("storage endpoint %q is not a valid URL", cfg.Endpoint)
	}
	return &Presigner{
		cfg:      cfg,
		provider: DetectProvider(cfg.Endpoint),
		scheme:   u.Scheme,
		host:     u.Host,
		now:      time.Now,
	}, nil
}

// Provider returns the provider resolved from the configured endpoint.
func (p *Presigner) Provider() Provider {
	return p.provider
}

// PresignPut signs a PUT of the given key and content type. Pure function of
// its inputs and the clock: recomputing with identical inputs yields an
// identical signature.
func (p *Presigner) PresignPut(key, contentType string) (*PresignedPut, error) {
	if key == "" {
		return nil, fmt.Errorf("object key is required")
	}
	now := p.now().UTC()
	amzDate := now.Format("20060102T150405Z")
	shortDate := now.Format("20060102")
	scope := strings.Join([]string{shortDate, p.cfg.Region, serviceName, "aws4_request"}, "/")

	canonicalURI := "/" + uriEscape(p.cfg.Bucket) + "/" + escapeKeySegments(key)

	query := map[string]string{
		"X-Amz-Algorithm":      signingAlgorithm,
		"X-Amz-Content-Sha256": unsignedPayload,
		"X-Amz-Credential":     p.cfg.AccessKeyID + "/" + scope,
		"X-Amz-Date":           amzDate,
		"X-Amz-Expires":        fmt.Sprintf("%d", int(PresignTTL.Seconds())),
		"X-Amz-SignedHeaders":  "content-type;host",
	}
	if p.cfg.SessionToken != "" && p.provider.Capabilities().SessionToken {
		query["X-Amz-Security-Token"] = p.cfg.SessionToken
	}
	canonicalQuery := canonicalQueryString(query)

	canonicalHeaders := "content-type:" + contentType + "\n" + "host:" + p.host + "\n"
	signedHeaders := "content-type;host"

	canonicalRequest := strings.Join([]string{
		"PUT",
		canonicalURI,
		canonicalQuery,
		canonicalHeaders,
		signedHeaders,
		unsignedPayload,
	}, "\n")

	stringToSign := strings.Join([]string{
		signingAlgorithm,
		amzDate,
		scope,
		hexSHA256([]byte(canonicalRequest)),
	}, "\n")

	signature := hex.EncodeToString(hmacSHA256(p.signingKey(shortDate), []byte(stringToSign)))

	return &PresignedPut{
		URL:         p.scheme + "://" + p.host + canonicalURI + "?" + canonicalQuery + "&X-Amz-Signature=" + signature,
		Key:         key,
		Bucket:      p.cfg.Bucket,
		ContentType: contentType,
		Headers:     map[string]string{"Content-Type": contentType},
		ExpiresAt:   now.Add(PresignTTL),
	}, nil
}

// signingKey derives the signature key through the 4-step HMAC-SHA256 chain
// seeded by the secret key, folding in date, region and service, terminating
// in the literal aws4_request suffix.
func (p *Presigner) signingKey(shortDate string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+p.cfg.SecretAccessKey), []byte(shortDate))
	kRegion := hmacSHA256(kDate, []byte(p.cfg.Region))
	kService := hmacSHA256(kRegion, []byte(serviceName))
	return hmacSHA256(kService, []byte("aws4_request"))
}

// canonicalQueryString builds the canonical query: parameters sorted
// lexicographically by name, names and values percent-encoded.
func canonicalQueryString(params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, uriEscape(name)+"="+uriEscape(params[name]))
	}
	return strings.Join(pairs, "&")
}

// escapeKeySegments percent-encodes each path segment of an object key while
// keeping the separators.
func escapeKeySegments(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = uriEscape(s)
	}
	return strings.Join(segments, "/")
}

// uriEscape implements the AWS flavor of percent-encoding: unreserved
// characters pass through, everything else becomes uppercase %XX (space is
// %20, never +).
func uriEscape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
			c == '-' || c == '_' || c == '.' || c == '~' {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

func hexSHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
