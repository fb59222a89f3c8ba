package connectors

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go-civic/internal/features/report"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// WarehouseConnector copies resolved reports into an external SQL warehouse
// so finished work can be queried alongside other municipal datasets.
// Supports "postgresql" and "mysql"; a connector with an empty DSN is
// disabled and every call is a no-op.
type WarehouseConnector struct {
	dbType string // "postgresql" or "mysql"
	dsn    string
	db     *sql.DB
}

// NewWarehouseConnector creates a new warehouse connector
func NewWarehouseConnector(dbType, dsn string) *WarehouseConnector {
	return &WarehouseConnector{
		dbType: dbType,
		dsn:    dsn,
	}
}

// Enabled reports whether a warehouse DSN was configured
func (c *WarehouseConnector) Enabled() bool {
	return c.dsn != ""
}

// Connect establishes the warehouse connection and ensures the target table
func (c *WarehouseConnector) Connect(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}

	driver := c.dbType
	if c.dbType == "postgresql" {
		driver = "postgres"
	}

	db, err := sql.Open(driver, c.dsn)
	if err != nil {
		return fmt.Errorf("failed to open warehouse connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping warehouse: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	c.db = db
	return c.ensureTable(ctx)
}

// Disconnect closes the warehouse connection
func (c *WarehouseConnector) Disconnect(ctx context.Context) error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *WarehouseConnector) ensureTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS resolved_reports (
			report_id        VARCHAR(64) PRIMARY KEY,
			reporter_uid     VARCHAR(128),
			issue_type       VARCHAR(32),
			description      TEXT,
			assigned_dept    VARCHAR(32),
			assigned_to      VARCHAR(128),
			created_at       TIMESTAMP NULL,
			resolved_at      TIMESTAMP NULL,
			resolution_hours DOUBLE PRECISION
		)
	`
	if c.dbType == "mysql" {
		query = `
			CREATE TABLE IF NOT EXISTS resolved_reports (
				report_id        VARCHAR(64) PRIMARY KEY,
				reporter_uid     VARCHAR(128),
				issue_type       VARCHAR(32),
				description      TEXT,
				assigned_dept    VARCHAR(32),
				assigned_to      VARCHAR(128),
				created_at       TIMESTAMP NULL,
				resolved_at      TIMESTAMP NULL,
				resolution_hours DOUBLE
			)
		`
	}

	_, err := c.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to ensure warehouse table: %w", err)
	}
	return nil
}

// ArchiveResolved upserts resolved reports into the warehouse. Re-archiving
// the same report overwrites the previous row, so the job is safe to rerun.
func (c *WarehouseConnector) ArchiveResolved(ctx context.Context, reports []report.Report) (int, error) {
	if !c.Enabled() || c.db == nil {
		return 0, nil
	}

	query := `
		INSERT INTO resolved_reports
			(report_id, reporter_uid, issue_type, description, assigned_dept, assigned_to, created_at, resolved_at, resolution_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (report_id) DO UPDATE SET
			resolved_at = EXCLUDED.resolved_at,
			resolution_hours = EXCLUDED.resolution_hours
	`
	if c.dbType == "mysql" {
		query = `
			INSERT INTO resolved_reports
				(report_id, reporter_uid, issue_type, description, assigned_dept, assigned_to, created_at, resolved_at, resolution_hours)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				resolved_at = VALUES(resolved_at),
				resolution_hours = VALUES(resolution_hours)
		`
	}

	archived := 0
	for i := range reports {
		r := &reports[i]

		entry := r.ResolvedEntry()
		if entry == nil {
			continue
		}
		resolvedAt, err := entry.ChangedTime()
		if err != nil {
			continue
		}

		var createdAt *time.Time
		if t, err := r.CreatedTime(); err == nil {
			createdAt = &t
		}

		var hours interface{}
		if h, ok := r.ResolutionHours(); ok {
			hours = h
		}

		_, err = c.db.ExecContext(ctx, query,
			r.ID.Hex(),
			r.UID,
			string(r.EffectiveIssueType()),
			r.Description,
			string(r.Dept()),
			r.AssignedTo,
			createdAt,
			resolvedAt,
			hours,
		)
		if err != nil {
			return archived, fmt.Errorf("failed to archive report %s: %w", r.ID.Hex(), err)
		}
		archived++
	}

	return archived, nil
}
