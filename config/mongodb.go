package config

import (
	"fmt"

	"github.com/artie-labs/transfer/lib/stringutil"
)

type MongoDB struct {
	URI        string `yaml:"uri"`
	Username   string `yaml:"username,omitempty"`
	Password   string `yaml:"password,omitempty"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
	DisableTLS bool   `yaml:"disableTLS,omitempty"`
}

func (m *MongoDB) Validate() error {
	if m == nil {
		return fmt.Errorf("mongodb config is nil")
	}

	if stringutil.Empty(m.URI, m.Database, m.Collection) {
		return fmt.Errorf("one of the mongodb settings is empty: uri, database, collection")
	}

	return nil
}
