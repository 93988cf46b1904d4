package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"harvesterbilling/apperrors"
)

// R2Remote stores backups as objects in a Cloudflare R2 bucket. The linked
// credential is an "accessKeyID:secretAccessKey" pair.
type R2Remote struct {
	Bucket   string
	Endpoint string

	mu      sync.Mutex
	token   string
	client  *s3.Client
	factory func(ctx context.Context, endpoint, accessKey, secret string) (*s3.Client, error)
}

// NewR2Remote targets endpoint, or the account's default R2 endpoint when endpoint is empty.
func NewR2Remote(accountID, bucket, endpoint string) *R2Remote {
	if endpoint == "" && accountID != "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	}
	return &R2Remote{Bucket: bucket, Endpoint: endpoint, factory: newR2Client}
}

func newR2Client(ctx context.Context, endpoint, accessKey, secret string) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"), // Important for R2
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secret, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	}), nil
}

// clientFor reuses the client while the token stays the same.
func (r *R2Remote) clientFor(ctx context.Context, token string) (*s3.Client, error) {
	accessKey, secret, ok := strings.Cut(token, ":")
	if !ok || accessKey == "" || secret == "" {
		return nil, fmt.Errorf("%w: malformed R2 credential", apperrors.ErrUnauthorized)
	}
	if r.Bucket == "" || r.Endpoint == "" {
		return nil, errors.New("missing required R2 environment variables")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil && r.token == token {
		return r.client, nil
	}
	client, err := r.factory(ctx, r.Endpoint, accessKey, secret)
	if err != nil {
		return nil, err
	}
	r.client, r.token = client, token
	return client, nil
}

func (r *R2Remote) Find(ctx context.Context, token, name string) (*RemoteFile, error) {
	client, err := r.clientFor(ctx, token)
	if err != nil {
		return nil, err
	}
	out, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.Bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, classify("find", err)
	}
	f := &RemoteFile{ID: name, Name: name}
	if out.LastModified != nil {
		f.ModifiedAt = *out.LastModified
	}
	return f, nil
}

func (r *R2Remote) put(ctx context.Context, token, key string, data []byte) error {
	client, err := r.clientFor(ctx, token)
	if err != nil {
		return err
	}
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return classify("upload", err)
	}
	return nil
}

func (r *R2Remote) Create(ctx context.Context, token, name string, data []byte) (*RemoteFile, error) {
	if err := r.put(ctx, token, name, data); err != nil {
		return nil, err
	}
	return &RemoteFile{ID: name, Name: name}, nil
}

// Update overwrites the object; on R2 the file id is its key.
func (r *R2Remote) Update(ctx context.Context, token, id string, data []byte) error {
	return r.put(ctx, token, id, data)
}

func (r *R2Remote) Download(ctx context.Context, token, id string) ([]byte, error) {
	client, err := r.clientFor(ctx, token)
	if err != nil {
		return nil, err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.Bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: remote backup %s", apperrors.ErrNotFound, id)
		}
		return nil, classify("download", err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	var nsk *types.NoSuchKey
	if errors.As(err, &nf) || errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}

var authErrorCodes = map[string]bool{
	"InvalidAccessKeyId":    true,
	"SignatureDoesNotMatch": true,
	"ExpiredToken":          true,
	"AccessDenied":          true,
	"Unauthorized":          true,
}

func isAuthError(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && authErrorCodes[apiErr.ErrorCode()] {
		return true
	}
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		code := re.HTTPStatusCode()
		return code == http.StatusUnauthorized || code == http.StatusForbidden
	}
	return false
}

// classify wraps credential rejections in ErrUnauthorized.
func classify(op string, err error) error {
	if isAuthError(err) {
		return fmt.Errorf("%w: R2 %s: %v", apperrors.ErrUnauthorized, op, err)
	}
	return fmt.Errorf("R2 %s: %w", op, err)
}
