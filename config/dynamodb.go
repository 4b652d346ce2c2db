package config

import (
	"fmt"

	"github.com/artie-labs/transfer/lib/stringutil"
)

type DynamoDB struct {
	AwsRegion          string `yaml:"awsRegion"`
	AwsAccessKeyID     string `yaml:"awsAccessKeyId"`
	AwsSecretAccessKey string `yaml:"awsSecretAccessKey"`
	TableName          string `yaml:"tableName"`
	// PartitionKey - the attribute listed into the index.
	PartitionKey string `yaml:"partitionKey"`
}

func (d *DynamoDB) Validate() error {
	if d == nil {
		return fmt.Errorf("dynamodb config is nil")
	}

	if stringutil.Empty(d.AwsRegion, d.AwsAccessKeyID, d.AwsSecretAccessKey, d.TableName, d.PartitionKey) {
		return fmt.Errorf("one of the dynamoDB configs is empty: awsRegion, awsAccessKeyID, awsSecretAccessKey, tableName or partitionKey")
	}

	return nil
}

type S3 struct {
	// Path - s3://bucket/prefix
	Path               string `yaml:"path"`
	Suffix             string `yaml:"suffix,omitempty"`
	Sort               bool   `yaml:"sort"`
	AwsRegion          string `yaml:"awsRegion"`
	AwsAccessKeyID     string `yaml:"awsAccessKeyId"`
	AwsSecretAccessKey string `yaml:"awsSecretAccessKey"`
}

func (s *S3) Validate() error {
	if s == nil {
		return fmt.Errorf("s3 config is nil")
	}

	if stringutil.Empty(s.Path, s.AwsRegion, s.AwsAccessKeyID, s.AwsSecretAccessKey) {
		return fmt.Errorf("one of the s3 configs is empty: path, awsRegion, awsAccessKeyID or awsSecretAccessKey")
	}

	return nil
}
