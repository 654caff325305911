package config

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"time"

	"marketroast/internal/domain"
)

// DefaultFile is the properties file read when no other path is given.
const DefaultFile = "marketroast.properties"

// Recognized property keys.
//
// KeyAccessKeyID keeps the three-c spelling used by deployed configuration
// files. KeyAccessKeyIDAlias is accepted only when that key is absent.
const (
	KeyAccessKeyID      = "marketRoast.aws.acccessKeyId"
	KeyAccessKeyIDAlias = "marketRoast.aws.accessKeyId"
	KeySecretAccessKey  = "marketRoast.aws.secretAccessKey"
	KeyServiceURL       = "marketRoast.aws.serviceUrl"
	KeySellerID         = "marketRoast.aws.sellerID"
	KeyReportID         = "marketRoast.aws.reportId"
	KeyReportOutputFile = "marketRoast.aws.reportOutputFile"
	KeyMWSAuthToken     = "marketRoast.aws.mwsAuthToken"
	KeyHTTPTimeout      = "marketRoast.http.timeout"
	KeyArchiveBucket    = "marketRoast.archive.s3Bucket"
	KeyArchivePrefix    = "marketRoast.archive.s3Prefix"
	KeyArchiveRegion    = "marketRoast.archive.s3Region"
	KeyArchiveEndpoint  = "marketRoast.archive.s3Endpoint"
)

// ArchiveConfig describes where retrieved reports are copied.
type ArchiveConfig struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string
}

// Enabled reports whether archiving was configured.
func (a ArchiveConfig) Enabled() bool {
	return a.Bucket != ""
}

// ObjectKey returns the object key for the report stored at localPath:
// <prefix>/<reportID>/<file name>.
func (a ArchiveConfig) ObjectKey(reportID, localPath string) string {
	return path.Join(a.Prefix, reportID, filepath.Base(localPath))
}

// ReportConfig is the validated, immutable view of the properties file.
type ReportConfig struct {
	Path string

	AccessKeyID      string
	SecretAccessKey  string
	ServiceURL       string
	SellerID         string
	ReportID         string
	ReportOutputFile string
	MWSAuthToken     string

	// HTTPTimeout bounds the GetReport call. Zero means no timeout.
	HTTPTimeout time.Duration

	Archive ArchiveConfig

	// UsedAccessKeyAlias is set when the access key came from
	// KeyAccessKeyIDAlias instead of KeyAccessKeyID.
	UsedAccessKeyAlias bool
}

// Load reads path and builds a ReportConfig from it.
func Load(file string) (*ReportConfig, error) {
	props, err := LoadProperties(file)
	if err != nil {
		return nil, err
	}
	return NewReportConfig(file, props)
}

// NewReportConfig validates props. Every missing required key is reported
// in a single *domain.ConfigError.
func NewReportConfig(file string, props Properties) (*ReportConfig, error) {
	cfg := &ReportConfig{
		Path:             file,
		AccessKeyID:      props.String(KeyAccessKeyID),
		SecretAccessKey:  props.String(KeySecretAccessKey),
		ServiceURL:       props.String(KeyServiceURL),
		SellerID:         props.String(KeySellerID),
		ReportID:         props.String(KeyReportID),
		ReportOutputFile: props.String(KeyReportOutputFile),
		MWSAuthToken:     props.String(KeyMWSAuthToken),
		Archive: ArchiveConfig{
			Bucket:   props.String(KeyArchiveBucket),
			Prefix:   props.String(KeyArchivePrefix),
			Region:   props.String(KeyArchiveRegion),
			Endpoint: props.String(KeyArchiveEndpoint),
		},
	}

	if cfg.AccessKeyID == "" && props.Has(KeyAccessKeyIDAlias) {
		cfg.AccessKeyID = props.String(KeyAccessKeyIDAlias)
		cfg.UsedAccessKeyAlias = true
	}

	required := []struct {
		key   string
		value string
	}{
		{KeyAccessKeyID, cfg.AccessKeyID},
		{KeySecretAccessKey, cfg.SecretAccessKey},
		{KeyServiceURL, cfg.ServiceURL},
		{KeySellerID, cfg.SellerID},
		{KeyReportID, cfg.ReportID},
		{KeyReportOutputFile, cfg.ReportOutputFile},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewMissingKeysError(file, missing)
	}

	if err := validateServiceURL(cfg.ServiceURL); err != nil {
		return nil, invalid(file, KeyServiceURL, err)
	}

	if raw := props.String(KeyHTTPTimeout); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, invalid(file, KeyHTTPTimeout, err)
		}
		if timeout < 0 {
			return nil, invalid(file, KeyHTTPTimeout, fmt.Errorf("must not be negative, got %s", timeout))
		}
		cfg.HTTPTimeout = timeout
	}

	return cfg, nil
}

// ArchiveKey returns the object key used for the report archive.
func (c *ReportConfig) ArchiveKey() string {
	return c.Archive.ObjectKey(c.ReportID, c.ReportOutputFile)
}

// MaskedAccessKeyID returns the access key with all but the last four
// characters hidden, for logging.
func (c *ReportConfig) MaskedAccessKeyID() string {
	if len(c.AccessKeyID) <= 4 {
		return "****"
	}
	return "****" + c.AccessKeyID[len(c.AccessKeyID)-4:]
}

func validateServiceURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("only http and https URLs are supported, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

func invalid(file, key string, err error) *domain.ConfigError {
	return &domain.ConfigError{
		Code: domain.CodeConfigInvalid,
		Path: file,
		Err:  fmt.Errorf("%s: %w", key, err),
	}
}
