package s3lib

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
)

type fakeS3 struct {
	s3iface.S3API

	pages [][]string
	err   error
	input *s3.ListObjectsV2Input
}

func (f *fakeS3) ListObjectsV2PagesWithContext(_ aws.Context, input *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, _ ...request.Option) error {
	f.input = input
	if f.err != nil {
		return f.err
	}

	for i, page := range f.pages {
		var output s3.ListObjectsV2Output
		for _, key := range page {
			output.Contents = append(output.Contents, &s3.Object{Key: aws.String(key)})
		}
		if !fn(&output, i == len(f.pages)-1) {
			break
		}
	}
	return nil
}

func TestBucketAndPrefixFromFilePath(t *testing.T) {
	type _tc struct {
		fp             string
		expectedBucket string
		expectedPrefix string
		expectedErr    string
	}

	tcs := []_tc{
		{
			fp:             "s3://bucket/prefix/images",
			expectedBucket: "bucket",
			expectedPrefix: "prefix/images",
		},
		{
			fp:             "bucket/prefix",
			expectedBucket: "bucket",
			expectedPrefix: "prefix",
		},
		{
			fp:          "s3://bucket",
			expectedErr: "invalid S3 path, missing prefix",
		},
	}

	for _, tc := range tcs {
		bucket, prefix, err := bucketAndPrefixFromFilePath(tc.fp)
		if tc.expectedErr != "" {
			assert.ErrorContains(t, err, tc.expectedErr, tc.fp)
		} else {
			assert.NoError(t, err, tc.fp)
			assert.Equal(t, tc.expectedBucket, *bucket, tc.fp)
			assert.Equal(t, tc.expectedPrefix, *prefix, tc.fp)
		}
	}
}

func TestS3Client_ListFiles(t *testing.T) {
	{
		fake := &fakeS3{pages: [][]string{{"images/", "images/a.png", "images/b.png"}, {"images/nested/c.png"}}}
		client := &S3Client{client: fake}
		files, err := client.ListFiles(context.Background(), "s3://bucket/images/")
		assert.NoError(t, err)
		assert.Equal(t, "bucket", aws.StringValue(fake.input.Bucket))
		assert.Equal(t, "images/", aws.StringValue(fake.input.Prefix))

		var names []string
		for _, file := range files {
			names = append(names, file.Name())
		}
		assert.Equal(t, []string{"a.png", "b.png", "c.png"}, names)
	}
	{
		client := &S3Client{client: &fakeS3{err: fmt.Errorf("access denied")}}
		_, err := client.ListFiles(context.Background(), "s3://bucket/images/")
		assert.ErrorContains(t, err, "failed to list objects: access denied")
	}
	{
		client := &S3Client{client: &fakeS3{}}
		_, err := client.ListFiles(context.Background(), "bucket")
		assert.ErrorContains(t, err, "missing prefix")
	}
}
