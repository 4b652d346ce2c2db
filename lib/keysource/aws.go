package keysource

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"

	"github.com/artie-labs/dataset/config"
	"github.com/artie-labs/dataset/lib/s3lib"
)

func newSession(region, accessKeyID, secretAccessKey string) (*session.Session, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(accessKeyID, secretAccessKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

func s3Lister(cfg config.S3) lister {
	return func(ctx context.Context) ([]string, error) {
		sess, err := newSession(cfg.AwsRegion, cfg.AwsAccessKeyID, cfg.AwsSecretAccessKey)
		if err != nil {
			return nil, err
		}

		files, err := s3lib.NewClient(sess).ListFiles(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return s3Names(files, cfg.Suffix, cfg.Sort), nil
	}
}

func s3Names(files []s3lib.S3File, suffix string, sort bool) []string {
	var names []string
	for _, file := range files {
		name := file.Name()
		if strings.HasSuffix(name, suffix) {
			names = append(names, name)
		}
	}

	if sort {
		slices.Sort(names)
	}
	return names
}

func dynamoDBLister(cfg config.DynamoDB) lister {
	return func(ctx context.Context) ([]string, error) {
		sess, err := newSession(cfg.AwsRegion, cfg.AwsAccessKeyID, cfg.AwsSecretAccessKey)
		if err != nil {
			return nil, err
		}
		return scanPartitionKeys(ctx, dynamodb.New(sess), cfg.TableName, cfg.PartitionKey)
	}
}

func scanPartitionKeys(ctx context.Context, client dynamodbiface.DynamoDBAPI, tableName, partitionKey string) ([]string, error) {
	var keys []string
	var convertErr error
	err := client.ScanPagesWithContext(ctx, &dynamodb.ScanInput{
		TableName:                aws.String(tableName),
		ProjectionExpression:     aws.String("#pk"),
		ExpressionAttributeNames: map[string]*string{"#pk": aws.String(partitionKey)},
	}, func(page *dynamodb.ScanOutput, _ bool) bool {
		for _, item := range page.Items {
			key, err := attributeToString(item[partitionKey])
			if err != nil {
				convertErr = err
				return false
			}
			keys = append(keys, key)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan table %q: %w", tableName, err)
	}

	if convertErr != nil {
		return nil, convertErr
	}

	return keys, nil
}

// Partition keys can only be strings, numbers or binary.
func attributeToString(value *dynamodb.AttributeValue) (string, error) {
	switch {
	case value == nil:
		return "", fmt.Errorf("item is missing the partition key")
	case value.S != nil:
		return *value.S, nil
	case value.N != nil:
		return *value.N, nil
	case value.B != nil:
		return fmt.Sprintf("%x", value.B), nil
	default:
		return "", fmt.Errorf("unsupported partition key type: %s", value.String())
	}
}
