package cli

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/annlab/annfix/blobstore"
	minioblob "github.com/annlab/annfix/blobstore/minio"
	s3blob "github.com/annlab/annfix/blobstore/s3"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// storeFromURL builds a BlobStore from an object storage URL.
//
//	s3://bucket/prefix               AWS S3, default credential chain
//	minio://host:port/bucket/prefix  MinIO, credentials from environment
//	                                 (add ?insecure=true for plain HTTP)
func storeFromURL(ctx context.Context, raw string) (blobstore.BlobStore, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid store URL %q: %w", raw, err)
	}

	switch u.Scheme {
	case "s3":
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
		return s3blob.NewStore(awss3.NewFromConfig(cfg), u.Host, strings.TrimPrefix(u.Path, "/")), nil

	case "minio":
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if bucket == "" {
			return nil, fmt.Errorf("store URL %q: missing bucket", raw)
		}
		client, err := minio.New(u.Host, &minio.Options{
			Creds:  credentials.NewEnvMinio(),
			Secure: u.Query().Get("insecure") != "true",
		})
		if err != nil {
			return nil, err
		}
		return minioblob.NewStore(client, bucket, prefix), nil

	default:
		return nil, fmt.Errorf("unsupported store URL scheme %q (want s3 or minio)", u.Scheme)
	}
}
