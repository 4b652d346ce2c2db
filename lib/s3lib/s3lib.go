package s3lib

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type S3Client struct {
	client s3iface.S3API
}

func NewClient(sess *session.Session) *S3Client {
	return &S3Client{client: s3.New(sess)}
}

func bucketAndPrefixFromFilePath(fp string) (*string, *string, error) {
	// Remove the s3:// prefix if it's there
	fp = strings.TrimPrefix(fp, "s3://")

	parts := strings.SplitN(fp, "/", 2)
	if len(parts) < 2 {
		return nil, nil, fmt.Errorf("invalid S3 path, missing prefix")
	}

	bucket := parts[0]
	prefix := parts[1]
	return &bucket, &prefix, nil
}

type S3File struct {
	Key *string `yaml:"key"`
}

// Name is the last element of the key.
func (s S3File) Name() string {
	return path.Base(aws.StringValue(s.Key))
}

// ListFiles lists the objects under an s3://bucket/prefix path. Folder placeholders (keys ending in "/") are skipped.
func (s *S3Client) ListFiles(ctx context.Context, fp string) ([]S3File, error) {
	bucket, prefix, err := bucketAndPrefixFromFilePath(fp)
	if err != nil {
		return nil, err
	}

	var files []S3File
	err = s.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: bucket,
		Prefix: prefix,
	}, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, object := range page.Contents {
			if strings.HasSuffix(aws.StringValue(object.Key), "/") {
				continue
			}

			files = append(files, S3File{
				Key: object.Key,
			})
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	return files, nil
}
