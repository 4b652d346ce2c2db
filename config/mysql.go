package config

import (
	"fmt"
	"math"

	"github.com/artie-labs/transfer/lib/stringutil"
	"github.com/go-sql-driver/mysql"
)

type MySQL struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`

	Table  string `yaml:"table"`
	Column string `yaml:"column"`
}

func (m *MySQL) ToDSN() string {
	config := mysql.NewConfig()
	config.User = m.Username
	config.Passwd = m.Password
	config.Net = "tcp"
	config.Addr = fmt.Sprintf("%s:%d", m.Host, m.Port)
	config.DBName = m.Database
	return config.FormatDSN()
}

func (m *MySQL) Validate() error {
	if m == nil {
		return fmt.Errorf("MySQL config is nil")
	}

	if stringutil.Empty(m.Host, m.Username, m.Password, m.Database) {
		return fmt.Errorf("one of the MySQL settings is empty: host, username, password, database")
	}

	if m.Port <= 0 {
		return fmt.Errorf("port is not set or <= 0")
	} else if m.Port > math.MaxUint16 {
		return fmt.Errorf("port is > %d", math.MaxUint16)
	}

	if stringutil.Empty(m.Table, m.Column) {
		return fmt.Errorf("one of the MySQL table settings is empty: table, column")
	}

	return nil
}
