package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/iWorld-y/travel_profiler/app/profiler/pkg/config"
	"github.com/iWorld-y/travel_profiler/app/profiler/pkg/logger"
)

// 数据集表结构，列名与 CSV 表头保持一致
const schemaSQL = `
CREATE TABLE IF NOT EXISTS region (
	code TEXT PRIMARY KEY,
	region TEXT
);

CREATE TABLE IF NOT EXISTS travel_mode (
	code TEXT PRIMARY KEY,
	mode TEXT
);

CREATE TABLE IF NOT EXISTS travel_motives (
	code TEXT PRIMARY KEY,
	motive TEXT
);

CREATE TABLE IF NOT EXISTS trips (
	"UserId" INTEGER NOT NULL,
	"TravelMotives" TEXT,
	"TravelModes" TEXT,
	"RegionCharacteristics" TEXT,
	"Periods" TEXT,
	"Trip in a year" NUMERIC,
	"Km travelled in a year" NUMERIC,
	UNIQUE ("UserId", "TravelMotives", "TravelModes", "RegionCharacteristics", "Periods")
);

CREATE INDEX IF NOT EXISTS idx_trips_user_id ON trips ("UserId");
`

// Storage 数据集所在的 Postgres
type Storage struct {
	db  *sql.DB
	cfg config.DBConfig
}

// DSN 构造 lib/pq 连接串
func DSN(cfg config.DBConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
}

func NewStorage(cfg config.DBConfig) (*Storage, error) {
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	return &Storage{db: db, cfg: cfg}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// WaitForPostgres 轮询直到数据库可用
func (s *Storage) WaitForPostgres(ctx context.Context, attempts int, interval time.Duration) error {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		if lastErr = s.db.PingContext(ctx); lastErr == nil {
			logger.Log.Info("PostgreSQL is ready")
			return nil
		}
		logger.Log.Infof("Waiting for PostgreSQL... (attempt %d/%d) - last error: %v", i, attempts, lastErr)
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("postgres not responding after %d attempts: %w", attempts, lastErr)
}

// InitSchema 在一个事务内创建数据集表
func (s *Storage) InitSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = fmt.Errorf("%w: %v", err, rerr)
		}
		return fmt.Errorf("create tables: %w", err)
	}
	return tx.Commit()
}

// IsPopulated public schema 下是否已经存在表
func (s *Storage) IsPopulated(ctx context.Context) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT FROM pg_tables WHERE schemaname = 'public')`).Scan(&exists)
	return exists, err
}

// DropSchema 删除并重建 public schema
func (s *Storage) DropSchema(ctx context.Context) error {
	stmts := []string{
		"DROP SCHEMA IF EXISTS public CASCADE",
		"CREATE SCHEMA public",
		"GRANT ALL ON SCHEMA public TO " + pq.QuoteIdentifier(s.cfg.User),
		"GRANT ALL ON SCHEMA public TO public",
	}
	for _, stmt := range stmts {
		logger.Log.Infof("Executing: %s", stmt)
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

// tableColumns 查询表中实际存在的列
func (s *Storage) tableColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT column_name FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s does not exist", table)
	}
	return cols, nil
}
