package storage

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/flavor-emperor/publisher/internal/config"
	"github.com/flavor-emperor/publisher/internal/logger"
	"github.com/flavor-emperor/publisher/internal/models"
)

// SigV4 constants for Cloudflare R2. R2 accepts the fixed region "auto".
const (
	sigV4Algorithm = "AWS4-HMAC-SHA256"
	sigV4Region    = "auto"
	sigV4Service   = "s3"
	signedHeaders  = "host;x-amz-content-sha256;x-amz-date"

	amzDateFormat   = "20060102T150405Z"
	dateStampFormat = "20060102"
)

// R2Uploader performs signed PUTs directly against a Cloudflare R2 bucket.
// The public URL is derived from the account id and the object key.
type R2Uploader struct {
	accountID string
	accessKey string
	secretKey string
	bucket    string
	endpoint  string
	client    *http.Client
	logger    logger.Logger

	// now is stubbed in tests to make signatures reproducible.
	now func() time.Time
}

// NewR2Uploader builds the signed-PUT uploader. Missing credentials are
// not an error at construction; Upload reports them at the point of use,
// so a process without this backend's credentials still starts and serves
// its other routes.
func NewR2Uploader(cfg *config.R2Config, timeout time.Duration, log logger.Logger) *R2Uploader {
	return &R2Uploader{
		accountID: cfg.AccountID,
		accessKey: cfg.AccessKey,
		secretKey: cfg.SecretKey,
		bucket:    cfg.Bucket,
		endpoint:  cfg.Endpoint,
		client:    &http.Client{Timeout: timeout},
		logger:    log,
		now:       time.Now,
	}
}

// configured reports whether all four credentials are present. No request
// is ever attempted without them.
func (u *R2Uploader) configured() error {
	if u.accountID == "" || u.accessKey == "" || u.secretKey == "" || u.bucket == "" {
		return fmt.Errorf("%w: R2 account id, access key, secret key and bucket", models.ErrConfiguration)
	}
	return nil
}

// Upload PUTs the object with a SigV4-signed request and returns the
// bucket's public URL for the key.
func (u *R2Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := u.configured(); err != nil {
		return "", err
	}

	endpoint := u.endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.%s.r2.cloudflarestorage.com", u.bucket, u.accountID)
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse R2 endpoint: %w", err)
	}
	host := parsed.Host

	requestTime := u.now().UTC()
	amzDate := requestTime.Format(amzDateFormat)
	dateStamp := requestTime.Format(dateStampFormat)

	payloadHash := sha256Hex(data)
	canonicalURI := "/" + key

	canonicalHeaders := fmt.Sprintf("host:%s\nx-amz-content-sha256:%s\nx-amz-date:%s\n",
		host, payloadHash, amzDate)

	canonicalRequest := fmt.Sprintf("%s\n%s\n%s\n%s\n%s\n%s",
		http.MethodPut, canonicalURI, "", canonicalHeaders, signedHeaders, payloadHash)

	credentialScope := fmt.Sprintf("%s/%s/%s/aws4_request", dateStamp, sigV4Region, sigV4Service)
	stringToSign := fmt.Sprintf("%s\n%s\n%s\n%s",
		sigV4Algorithm, amzDate, credentialScope, sha256Hex([]byte(canonicalRequest)))

	signature := u.sign(dateStamp, stringToSign)
	authorization := fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		sigV4Algorithm, u.accessKey, credentialScope, signedHeaders, signature)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint+canonicalURI, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Host = host
	req.Header.Set("x-amz-content-sha256", payloadHash)
	req.Header.Set("x-amz-date", amzDate)
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: R2 upload: %v", models.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: R2 upload failed: HTTP %d: %s", models.ErrUpstream, resp.StatusCode, string(body))
	}

	publicURL := fmt.Sprintf("https://pub-%s.r2.dev/%s", u.accountID, key)
	u.logger.Info("Image uploaded to R2",
		logger.String("key", key),
		logger.Int("size", len(data)),
		logger.String("url", publicURL),
	)
	return publicURL, nil
}

// sign derives the SigV4 signing key and signs the string to sign.
func (u *R2Uploader) sign(dateStamp, stringToSign string) string {
	kDate := hmacSHA256([]byte("AWS4"+u.secretKey), dateStamp)
	kRegion := hmacSHA256(kDate, sigV4Region)
	kService := hmacSHA256(kRegion, sigV4Service)
	kSigning := hmacSHA256(kService, "aws4_request")
	return hex.EncodeToString(hmacSHA256(kSigning, stringToSign))
}

func hmacSHA256(key []byte, msg string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msg))
	return mac.Sum(nil)
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
