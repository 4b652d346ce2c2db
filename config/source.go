package config

import (
	"fmt"
)

type SourceType string

const (
	SourceFiles      SourceType = "files"
	SourceManifest   SourceType = "manifest"
	SourceS3         SourceType = "s3"
	SourcePostgreSQL SourceType = "postgresql"
	SourceMySQL      SourceType = "mysql"
	SourceMongoDB    SourceType = "mongodb"
	SourceDynamoDB   SourceType = "dynamodb"
)

// Source describes where the item identifiers of the index are listed from.
type Source struct {
	Type SourceType `yaml:"type"`

	Files      *Files      `yaml:"files,omitempty"`
	Manifest   *Manifest   `yaml:"manifest,omitempty"`
	S3         *S3         `yaml:"s3,omitempty"`
	PostgreSQL *PostgreSQL `yaml:"postgresql,omitempty"`
	MySQL      *MySQL      `yaml:"mysql,omitempty"`
	MongoDB    *MongoDB    `yaml:"mongodb,omitempty"`
	DynamoDB   *DynamoDB   `yaml:"dynamodb,omitempty"`
}

func (s *Source) Validate() error {
	if s == nil {
		return fmt.Errorf("source config is nil")
	}

	switch s.Type {
	case SourceFiles:
		return s.Files.Validate()
	case SourceManifest:
		return s.Manifest.Validate()
	case SourceS3:
		return s.S3.Validate()
	case SourcePostgreSQL:
		return s.PostgreSQL.Validate()
	case SourceMySQL:
		return s.MySQL.Validate()
	case SourceMongoDB:
		return s.MongoDB.Validate()
	case SourceDynamoDB:
		return s.DynamoDB.Validate()
	default:
		return fmt.Errorf("invalid source: '%s'", s.Type)
	}
}

type Files struct {
	Pattern string `yaml:"pattern"`
	Dirs    bool   `yaml:"dirs"`
	Sort    bool   `yaml:"sort"`
}

func (f *Files) Validate() error {
	if f == nil {
		return fmt.Errorf("files config is nil")
	}

	if f.Pattern == "" {
		return fmt.Errorf("pattern must be passed in")
	}

	return nil
}

type Manifest struct {
	Path string `yaml:"path"`
}

func (m *Manifest) Validate() error {
	if m == nil {
		return fmt.Errorf("manifest config is nil")
	}

	if m.Path == "" {
		return fmt.Errorf("manifest path must be passed in")
	}

	return nil
}
