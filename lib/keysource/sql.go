package keysource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/artie-labs/dataset/config"
)

func postgresLister(cfg config.PostgreSQL) lister {
	return func(ctx context.Context) ([]string, error) {
		return queryKeys(ctx, "pgx", cfg.ToDSN(), postgresQuery(cfg.Schema, cfg.Table, cfg.Column))
	}
}

func mysqlLister(cfg config.MySQL) lister {
	return func(ctx context.Context) ([]string, error) {
		return queryKeys(ctx, "mysql", cfg.ToDSN(), mysqlQuery(cfg.Table, cfg.Column))
	}
}

func postgresQuery(schema, table, column string) string {
	col := pgx.Identifier{column}.Sanitize()
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s IS NOT NULL ORDER BY %s", col, pgx.Identifier{schema, table}.Sanitize(), col, col)
}

func quoteMySQLIdentifier(identifier string) string {
	return "`" + strings.ReplaceAll(identifier, "`", "``") + "`"
}

func mysqlQuery(table, column string) string {
	col := quoteMySQLIdentifier(column)
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s IS NOT NULL ORDER BY %s", col, quoteMySQLIdentifier(table), col, col)
}

func queryKeys(ctx context.Context, driverName, dsn, query string) ([]string, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to run query %q: %w", query, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var value any
		if err = rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		keys = append(keys, valueToString(value))
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return keys, nil
}

func valueToString(value any) string {
	switch castedValue := value.(type) {
	case []byte:
		return string(castedValue)
	case string:
		return castedValue
	case time.Time:
		return castedValue.Format(time.RFC3339Nano)
	case [16]byte:
		return uuid.UUID(castedValue).String()
	default:
		return fmt.Sprint(castedValue)
	}
}
