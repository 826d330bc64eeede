// Package sqlite provides a SQLite-backed instance store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/benchseed/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/benchseed/internal/services/instances/filter"
	"github.com/louisbranch/benchseed/internal/services/instances/storage"
	"github.com/louisbranch/benchseed/internal/services/instances/storage/sqlite/migrations"
	"github.com/louisbranch/benchseed/internal/suite"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const selectColumns = `instance_key, suite, function_id, instance_id, dimension,
       optimum_seed, xopt, fopt, created_at`

// Store persists instance records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite instance store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutInstance inserts one instance record.
func (s *Store) PutInstance(ctx context.Context, record storage.InstanceRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	spec := record.Spec
	if strings.TrimSpace(string(spec.Suite)) == "" {
		return fmt.Errorf("suite is required")
	}
	if spec.Function <= 0 || spec.Instance <= 0 || spec.Dimension <= 0 {
		return fmt.Errorf("function, instance, and dimension must be positive")
	}
	if len(record.XOpt) != spec.Dimension {
		return fmt.Errorf("xopt has %d coordinates, want %d", len(record.XOpt), spec.Dimension)
	}
	createdAt := record.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO instances (
		   instance_key,
		   suite,
		   function_id,
		   instance_id,
		   dimension,
		   optimum_seed,
		   xopt,
		   fopt,
		   created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		spec.String(),
		string(spec.Suite),
		spec.Function,
		spec.Instance,
		spec.Dimension,
		record.OptimumSeed,
		encodeVector(record.XOpt),
		record.FOpt,
		createdAt.UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("put instance: %w", err)
	}
	return nil
}

// GetInstance returns the record stored for spec.
func (s *Store) GetInstance(ctx context.Context, spec suite.Spec) (storage.InstanceRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.InstanceRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.InstanceRecord{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+selectColumns+`
		   FROM instances
		  WHERE instance_key = ?`,
		spec.String(),
	)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.InstanceRecord{}, storage.ErrNotFound
		}
		return storage.InstanceRecord{}, fmt.Errorf("get instance: %w", err)
	}
	return record, nil
}

// ListInstances returns one page of records ordered by instance key.
func (s *Store) ListInstances(ctx context.Context, req storage.ListRequest) (storage.InstancePage, error) {
	if err := ctx.Err(); err != nil {
		return storage.InstancePage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.InstancePage{}, fmt.Errorf("storage is not configured")
	}
	if req.PageSize <= 0 {
		return storage.InstancePage{}, fmt.Errorf("page size must be greater than zero")
	}
	cond, err := filter.Parse(req.Filter)
	if err != nil {
		return storage.InstancePage{}, err
	}

	var (
		clauses []string
		params  []any
	)
	if !cond.Empty() {
		clauses = append(clauses, cond.Clause)
		params = append(params, cond.Params...)
	}
	if token := strings.TrimSpace(req.PageToken); token != "" {
		clauses = append(clauses, "instance_key > ?")
		params = append(params, token)
	}
	query := `SELECT ` + selectColumns + ` FROM instances`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY instance_key ASC LIMIT ?`
	params = append(params, req.PageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, params...)
	if err != nil {
		return storage.InstancePage{}, fmt.Errorf("list instances: %w", err)
	}
	defer rows.Close()

	page := storage.InstancePage{
		Instances: make([]storage.InstanceRecord, 0, req.PageSize),
	}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return storage.InstancePage{}, fmt.Errorf("list instances: %w", err)
		}
		page.Instances = append(page.Instances, record)
	}
	if err := rows.Err(); err != nil {
		return storage.InstancePage{}, fmt.Errorf("list instances: %w", err)
	}
	if len(page.Instances) > req.PageSize {
		page.Instances = page.Instances[:req.PageSize]
		page.NextPageToken = page.Instances[req.PageSize-1].Spec.String()
	}
	return page, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (storage.InstanceRecord, error) {
	var (
		record    storage.InstanceRecord
		key       string
		suiteName string
		xopt      []byte
		createdAt int64
	)
	if err := row.Scan(
		&key,
		&suiteName,
		&record.Spec.Function,
		&record.Spec.Instance,
		&record.Spec.Dimension,
		&record.OptimumSeed,
		&xopt,
		&record.FOpt,
		&createdAt,
	); err != nil {
		return storage.InstanceRecord{}, err
	}
	record.Spec.Suite = suite.Name(suiteName)
	vector, err := decodeVector(xopt)
	if err != nil {
		return storage.InstanceRecord{}, fmt.Errorf("decode xopt of %s: %w", key, err)
	}
	record.XOpt = vector
	record.CreatedAt = time.UnixMilli(createdAt).UTC()
	return record, nil
}

// encodeVector stores each coordinate as its little-endian IEEE 754 bits.
func encodeVector(values []float64) []byte {
	buf := make([]byte, 0, 8*len(values))
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}
	return buf
}

func decodeVector(buf []byte) ([]float64, error) {
	if len(buf)%8 != 0 {
		return nil, fmt.Errorf("vector blob length %d is not a multiple of 8", len(buf))
	}
	values := make([]float64, len(buf)/8)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return values, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "instances.instance_key")
}

var _ storage.InstanceStore = (*Store)(nil)
