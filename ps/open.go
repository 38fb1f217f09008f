package ps

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Open creates a storage from a data source name:
//
//	mem://                       in-memory tables
//	git+mem://                   in-memory Git repository
//	git://<dir>                  Git repository in dir
//	pebble://<dir>               Pebble store in dir
//	s3://<bucket>/<prefix>       S3 bucket (?region=&endpoint=)
//	file://<dir> or <dir>        delimited files in dir
//
// Adding ?delim=tab stores tables as TSV instead of CSV.
func Open(ctx context.Context, dsn string) (Storage, error) {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return NewFileStorage(dsn, CSV)
	}

	location, rawQuery, _ := strings.Cut(rest, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("invalid data source %q: %w", dsn, err)
	}

	codec, err := codecFor(query.Get("delim"))
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(scheme) {
	case "mem", "memory":
		return NewMemoryStorage(codec), nil
	case "git+mem":
		return NewMemoryGitStorage(codec)
	case "git":
		if location == "" {
			return nil, fmt.Errorf("git data source needs a directory")
		}
		var remote *string
		if origin := query.Get("clone"); origin != "" {
			remote = &origin
		}
		return NewGitStorage(location, remote, codec)
	case "pebble":
		if location == "" {
			return nil, fmt.Errorf("pebble data source needs a directory")
		}
		return NewPebbleStorage(location, codec)
	case "s3":
		bucket, prefix, _ := strings.Cut(location, "/")
		if bucket == "" {
			return nil, fmt.Errorf("invalid S3 data source: %s", dsn)
		}
		client, err := NewS3Client(ctx, S3Config{
			Region:    query.Get("region"),
			Endpoint:  query.Get("endpoint"),
			AccessKey: query.Get("accessKey"),
			SecretKey: query.Get("secretKey"),
		})
		if err != nil {
			return nil, err
		}
		return NewS3Storage(client, bucket, prefix, codec), nil
	case "file":
		if location == "" {
			location = "."
		}
		return NewFileStorage(location, codec)
	default:
		return nil, fmt.Errorf("unsupported data source scheme: %s", scheme)
	}
}

func codecFor(delim string) (Codec, error) {
	switch strings.ToLower(delim) {
	case "", "comma", ",":
		return CSV, nil
	case "tab", `\t`:
		return TSV, nil
	default:
		return Codec{}, fmt.Errorf("unsupported delimiter: %s", delim)
	}
}

// Close releases storage resources when the backend holds any.
func Close(storage Storage) error {
	if closer, ok := storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
