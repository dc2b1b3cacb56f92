package db

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"bankinfer/adapters/datareadiness/coercer"
	"bankinfer/domain/dataset"
	"bankinfer/internal"
)

// identifierPattern accepts table or schema.table
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// TableSource loads every row of one SQL table
type TableSource struct {
	db      *sqlx.DB
	table   string
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

// Open connects with any registered driver ("postgres", "sqlite3") and
// returns a source for table
func Open(driver, dsn, table string, config coercer.CoercionConfig, logger *internal.Logger) (*TableSource, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	return NewTableSource(conn, table, config, logger)
}

// NewTableSource wraps an existing connection
func NewTableSource(conn *sqlx.DB, table string, config coercer.CoercionConfig, logger *internal.Logger) (*TableSource, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &TableSource{
		db:      conn,
		table:   table,
		coercer: coercer.NewTypeCoercer(config),
		logger:  logger,
	}, nil
}

// Describe names the source
func (s *TableSource) Describe() string {
	return fmt.Sprintf("%s table %s", s.db.DriverName(), s.table)
}

// Close releases the connection pool
func (s *TableSource) Close() error {
	return s.db.Close()
}

// Load reads the table in its natural column order
func (s *TableSource) Load(ctx context.Context) (*dataset.Dataset, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM "+s.table)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table, err)
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", s.table, err)
	}

	var raw [][]string
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", s.table, err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = cellString(v)
		}
		raw = append(raw, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", s.table, err)
	}

	ds, err := s.coercer.BuildDataset(s.table, headers, raw)
	if err != nil {
		return nil, err
	}
	s.logger.Info("[TableSource] loaded %s (%d columns, %d rows)", s.Describe(), len(ds.Names()), ds.Rows())
	return ds, nil
}

// cellString renders a scanned driver value as raw text. NULL becomes the
// empty string, which the coercer treats as missing.
func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", x)
	}
}
