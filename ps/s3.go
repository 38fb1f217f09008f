package ps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/nickyhof/FlatDB/core"
	"github.com/nickyhof/FlatDB/logger"
)

// S3API is the subset of the S3 client used by S3Storage.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Config contains S3 connection settings. Empty fields fall back to the
// default AWS configuration chain.
type S3Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string // Optional: custom S3-compatible endpoint
	AccessKey string
	SecretKey string
}

// S3Storage stores each table as an object "<prefix>/<name><ext>".
type S3Storage struct {
	mu     sync.Mutex
	client S3API
	bucket string
	prefix string
	codec  Codec
}

func NewS3Storage(client S3API, bucket, prefix string, codec Codec) *S3Storage {
	return &S3Storage{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		codec:  codec,
	}
}

// NewS3Client creates an S3 client with the given configuration
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // For S3-compatible services
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

func (s *S3Storage) key(name string) string {
	if s.prefix == "" {
		return name + s.codec.Extension()
	}
	return path.Join(s.prefix, name+s.codec.Extension())
}

func isNoSuchKey(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}

func (s *S3Storage) LoadTable(ctx context.Context, name string) (core.Table, error) {
	if err := validateTableName(name); err != nil {
		return core.Table{}, loadError(name, err)
	}

	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if isNoSuchKey(err) {
		return core.Table{}, loadError(name, ErrTableNotFound)
	}
	if err != nil {
		return core.Table{}, loadError(name, fmt.Errorf("failed to get S3 object: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Table{}, loadError(name, err)
	}

	table, err := s.codec.Decode(name, data)
	if err != nil {
		return core.Table{}, loadError(name, err)
	}
	return table, nil
}

func (s *S3Storage) SaveTable(ctx context.Context, table core.Table) error {
	if err := validateTableName(table.Name); err != nil {
		return saveError(table.Name, err)
	}

	data, err := s.codec.Encode(table)
	if err != nil {
		return saveError(table.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(table.Name)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return saveError(table.Name, fmt.Errorf("failed to upload to S3: %w", err))
	}
	logger.DebugContext(ctx, "table uploaded", "table", table.Name, "bucket", s.bucket, "bytes", len(data))
	return nil
}

func (s *S3Storage) ListTables(ctx context.Context) ([]string, error) {
	listPrefix := ""
	if s.prefix != "" {
		listPrefix = s.prefix + "/"
	}
	ext := s.codec.Extension()

	var names []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(listPrefix),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list S3 objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := strings.TrimPrefix(aws.ToString(obj.Key), listPrefix)
			if key == "" || strings.Contains(key, "/") || !strings.HasSuffix(key, ext) {
				continue
			}
			names = append(names, strings.TrimSuffix(key, ext))
		}
	}
	sort.Strings(names)
	return names, nil
}
