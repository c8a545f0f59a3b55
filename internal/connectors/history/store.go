package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"clawbot-dashboard/internal/config"
	"clawbot-dashboard/internal/model"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

var schemas = map[string][]string{
	DriverSQLite: {`
CREATE TABLE IF NOT EXISTS refresh_cycles (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  cycle_id TEXT NOT NULL UNIQUE,
  trigger_kind TEXT NOT NULL,
  started_at_ms INTEGER NOT NULL,
  duration_us INTEGER NOT NULL,
  signals_ok INTEGER NOT NULL,
  audit_log_ok INTEGER NOT NULL,
  compliance_ok INTEGER NOT NULL,
  signal_count INTEGER NOT NULL DEFAULT 0,
  audit_count INTEGER NOT NULL DEFAULT 0
);`,
		`CREATE INDEX IF NOT EXISTS idx_rc_started_at ON refresh_cycles(started_at_ms);`,
	},
	DriverMySQL: {`
CREATE TABLE IF NOT EXISTS refresh_cycles (
  seq BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
  cycle_id VARCHAR(36) NOT NULL UNIQUE,
  trigger_kind VARCHAR(16) NOT NULL,
  started_at_ms BIGINT NOT NULL,
  duration_us BIGINT NOT NULL,
  signals_ok TINYINT(1) NOT NULL,
  audit_log_ok TINYINT(1) NOT NULL,
  compliance_ok TINYINT(1) NOT NULL,
  signal_count INT NOT NULL DEFAULT 0,
  audit_count INT NOT NULL DEFAULT 0,
  INDEX idx_rc_started_at (started_at_ms)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,
	},
}

// Store keeps refresh cycle bookkeeping in SQLite or MySQL. Fetched
// entities are never stored.
type Store struct {
	db           *sql.DB
	driver       string
	keep         int
	queryTimeout time.Duration
}

// NewStore opens the history backend selected by cfg.
func NewStore(cfg config.Config) (*Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.HistoryDriver)) {
	case "", DriverSQLite:
		return Open(DriverSQLite, cfg.HistorySQLitePath, cfg.HistoryKeep, cfg.DBQueryTimeout)
	case DriverMySQL:
		return Open(DriverMySQL, cfg.MySQLDSN(), cfg.HistoryKeep, cfg.DBQueryTimeout)
	default:
		return nil, fmt.Errorf("unsupported history driver %q", cfg.HistoryDriver)
	}
}

// Open connects to dsn with driver, creates the schema and keeps at most
// keep records (0 keeps everything).
func Open(driver, dsn string, keep int, queryTimeout time.Duration) (*Store, error) {
	stmts, ok := schemas[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported history driver %q", driver)
	}
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("history dsn required")
	}
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s history: %w", driver, err)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create history schema: %w", err)
		}
	}

	return &Store{db: db, driver: driver, keep: keep, queryTimeout: queryTimeout}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Driver returns the database driver name.
func (s *Store) Driver() string { return s.driver }

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

// Record stores rec and trims the table to the configured size.
func (s *Store) Record(ctx context.Context, rec model.CycleRecord) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `
INSERT INTO refresh_cycles (cycle_id, trigger_kind, started_at_ms, duration_us, signals_ok, audit_log_ok, compliance_ok, signal_count, audit_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`, rec.ID, rec.Trigger, rec.StartedAt.UnixMilli(), rec.Duration.Microseconds(),
		boolInt(rec.SignalsOK), boolInt(rec.AuditLogOK), boolInt(rec.ComplianceOK),
		rec.SignalCount, rec.AuditCount); err != nil {
		return fmt.Errorf("insert refresh cycle: %w", err)
	}
	if s.keep > 0 {
		if err := s.prune(ctx, s.keep); err != nil {
			return fmt.Errorf("prune refresh cycles: %w", err)
		}
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]model.CycleRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
SELECT cycle_id, trigger_kind, started_at_ms, duration_us, signals_ok, audit_log_ok, compliance_ok, signal_count, audit_count
FROM refresh_cycles
ORDER BY seq DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.CycleRecord, 0, limit)
	for rows.Next() {
		var (
			item                 model.CycleRecord
			startedMS, duration  int64
			signals, audit, comp int64
		)
		if err := rows.Scan(&item.ID, &item.Trigger, &startedMS, &duration, &signals, &audit, &comp, &item.SignalCount, &item.AuditCount); err != nil {
			return nil, err
		}
		item.StartedAt = time.UnixMilli(startedMS).UTC()
		item.Duration = time.Duration(duration) * time.Microsecond
		item.SignalsOK = signals != 0
		item.AuditLogOK = audit != 0
		item.ComplianceOK = comp != 0
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM refresh_cycles;`).Scan(&n)
	return n, err
}

// MySQL refuses a DELETE with a subquery on the same table, so the cutoff
// is read first.
func (s *Store) prune(ctx context.Context, keep int) error {
	var cutoff int64
	err := s.db.QueryRowContext(ctx, `
SELECT seq FROM refresh_cycles ORDER BY seq DESC LIMIT 1 OFFSET ?;
`, keep).Scan(&cutoff)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM refresh_cycles WHERE seq <= ?;`, cutoff)
	return err
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
