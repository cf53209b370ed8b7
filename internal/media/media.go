// Package media hands out presigned S3 upload URLs for project media, the
// profile image and the resume.
package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"portfolio-backend/internal/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type Kind string

const (
	KindProject Kind = "project"
	KindProfile Kind = "profile"
	KindResume  Kind = "resume"
)

// allowed lists content type prefixes per kind.
var allowed = map[Kind][]string{
	KindProject: {"image/", "video/"},
	KindProfile: {"image/"},
	KindResume:  {"application/pdf"},
}

type Request struct {
	Kind        Kind   `json:"kind" validate:"required,oneof=project profile resume"`
	ContentType string `json:"contentType" validate:"required"`
	Filename    string `json:"filename"`
}

type Upload struct {
	Key       string            `json:"key"`
	Method    string            `json:"method"`
	UploadURL string            `json:"uploadUrl"`
	Headers   map[string]string `json:"headers,omitempty"`
	PublicURL string            `json:"publicUrl"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// PublicURL is the base the uploaded objects are served from. Empty means
	// the virtual-hosted S3 URL.
	PublicURL string
	TTL       time.Duration
}

type putPresigner interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type Presigner struct {
	client putPresigner
	cfg    Config
	now    func() time.Time
	newKey func() string
}

// NewS3 builds a presigner from static credentials when given, otherwise from
// the default AWS credential chain. A custom endpoint switches to path-style
// addressing for MinIO and similar stores.
func NewS3(ctx context.Context, cfg Config) (*Presigner, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return New(s3.NewPresignClient(client), cfg), nil
}

func New(client putPresigner, cfg Config) *Presigner {
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Minute
	}
	return &Presigner{
		client: client,
		cfg:    cfg,
		now:    time.Now,
		newKey: uuid.NewString,
	}
}

func (p *Presigner) PresignUpload(ctx context.Context, req Request) (Upload, error) {
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if !accepts(req.Kind, contentType) {
		return Upload{}, errs.Validation(
			fmt.Sprintf("%s uploads do not accept %s files.", req.Kind, contentType),
			map[string]string{"contentType": "oneof"},
		)
	}

	now := p.now().UTC()
	key := objectKey(req.Kind, now, p.newKey(), req.Filename)

	signed, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.cfg.TTL))
	if err != nil {
		return Upload{}, fmt.Errorf("presign put %s: %w", key, err)
	}

	headers := make(map[string]string, len(signed.SignedHeader))
	for name, values := range signed.SignedHeader {
		if strings.EqualFold(name, "host") || len(values) == 0 {
			continue
		}
		headers[name] = values[0]
	}

	return Upload{
		Key:       key,
		Method:    signed.Method,
		UploadURL: signed.URL,
		Headers:   headers,
		PublicURL: p.publicURL(key),
		ExpiresAt: now.Add(p.cfg.TTL),
	}, nil
}

func (p *Presigner) publicURL(key string) string {
	if p.cfg.PublicURL != "" {
		return strings.TrimRight(p.cfg.PublicURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.cfg.Bucket, p.cfg.Region, key)
}

func accepts(kind Kind, contentType string) bool {
	for _, prefix := range allowed[kind] {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}

// objectKey is kind/yyyy/mm/<id>[-<name>][.ext].
func objectKey(kind Kind, at time.Time, id, filename string) string {
	ext := extension(filename)
	name := id
	base := path.Base(strings.TrimSpace(filename))
	if slug := slugify(strings.TrimSuffix(base, path.Ext(base))); slug != "" {
		name += "-" + slug
	}
	return fmt.Sprintf("%s/%d/%02d/%s%s", kind, at.Year(), at.Month(), name, ext)
}

func extension(filename string) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(filename)))
	if len(ext) < 2 || len(ext) > 6 || strings.ContainsAny(ext, "/\\ ") {
		return ""
	}
	return ext
}
