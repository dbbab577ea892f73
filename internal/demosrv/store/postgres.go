package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/roadguard/roadguard-go/internal/models"
)

// Postgres persists complaints and official responses in PostgreSQL while
// delegating the seeded directory data (users, teams, heatmap, trends) to
// the embedded Memory store. Complaints survive server restarts.
type Postgres struct {
	*Memory
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewPool creates a PostgreSQL connection pool with tuned settings.
func NewPool(databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return pool, nil
}

// NewPostgres wraps a seeded Memory store with Postgres-backed complaints.
func NewPostgres(ctx context.Context, db *pgxpool.Pool, logger *zap.SugaredLogger) (*Postgres, error) {
	mem, err := NewMemory()
	if err != nil {
		return nil, err
	}
	p := &Postgres{Memory: mem, db: db, logger: logger}
	if err := p.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return p, nil
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS complaints (
			id TEXT PRIMARY KEY,
			complaint_number TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			priority TEXT NOT NULL,
			region TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			damage_type TEXT NOT NULL DEFAULT '',
			severity_level TEXT NOT NULL DEFAULT '',
			severity_score TEXT NOT NULL DEFAULT '',
			confidence TEXT NOT NULL DEFAULT '',
			citizen_id TEXT NOT NULL,
			citizen_name TEXT NOT NULL DEFAULT '',
			officer_name TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS official_responses (
			id TEXT PRIMARY KEY,
			complaint_id TEXT NOT NULL REFERENCES complaints(id),
			officer_id TEXT NOT NULL,
			officer_name TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL,
			status_changed_to TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	return err
}

const complaintColumns = `id, complaint_number, title, description, status, priority,
	region, address, damage_type, severity_level, severity_score, confidence,
	citizen_id, citizen_name, officer_name, created_at`

func scanComplaint(row pgx.Row) (models.Complaint, error) {
	var c models.Complaint
	err := row.Scan(&c.ID, &c.ComplaintNumber, &c.Title, &c.Description, &c.Status,
		&c.Priority, &c.Region, &c.Address, &c.DamageType, &c.SeverityLevel,
		&c.SeverityScore, &c.Confidence, &c.CitizenID, &c.CitizenName,
		&c.OfficerName, &c.CreatedAt)
	return c, err
}

func (p *Postgres) CreateComplaint(ctx context.Context, c models.Complaint) (models.Complaint, error) {
	query := `
		INSERT INTO complaints (` + complaintColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := p.db.Exec(ctx, query,
		c.ID, c.ComplaintNumber, c.Title, c.Description, c.Status, c.Priority,
		c.Region, c.Address, c.DamageType, c.SeverityLevel, c.SeverityScore,
		c.Confidence, c.CitizenID, c.CitizenName, c.OfficerName, c.CreatedAt,
	)
	if err != nil {
		return models.Complaint{}, fmt.Errorf("insert complaint: %w", err)
	}
	return c, nil
}

func (p *Postgres) Complaint(ctx context.Context, id string) (models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id = $1`
	c, err := scanComplaint(p.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Complaint{}, ErrNotFound
	}
	if err != nil {
		return models.Complaint{}, fmt.Errorf("query complaint: %w", err)
	}
	return c, nil
}

func (p *Postgres) Complaints(ctx context.Context, f ComplaintFilters) ([]models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints ORDER BY created_at DESC`
	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query complaints: %w", err)
	}
	defer rows.Close()

	var out []models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			p.logger.Errorw("Failed to scan complaint row", "error", err)
			continue
		}
		if matchesFilters(c, f) {
			out = append(out, c)
		}
	}
	return out, rows.Err()
}

func (p *Postgres) ComplaintsByCitizen(ctx context.Context, citizenID string) ([]models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE citizen_id = $1 ORDER BY created_at DESC`
	rows, err := p.db.Query(ctx, query, citizenID)
	if err != nil {
		return nil, fmt.Errorf("query complaints: %w", err)
	}
	defer rows.Close()

	var out []models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			p.logger.Errorw("Failed to scan complaint row", "error", err)
			continue
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Postgres) UpdateComplaintStatus(ctx context.Context, id string, status models.Status) (models.Complaint, error) {
	query := `UPDATE complaints SET status = $2 WHERE id = $1 RETURNING ` + complaintColumns
	c, err := scanComplaint(p.db.QueryRow(ctx, query, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Complaint{}, ErrNotFound
	}
	if err != nil {
		return models.Complaint{}, fmt.Errorf("update complaint status: %w", err)
	}
	return c, nil
}

func (p *Postgres) AddResponse(ctx context.Context, r models.OfficialResponse) (models.OfficialResponse, error) {
	query := `
		INSERT INTO official_responses (id, complaint_id, officer_id, officer_name, message, status_changed_to, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := p.db.Exec(ctx, query,
		r.ID, r.ComplaintID, r.OfficerID, r.OfficerName, r.Message, r.StatusChangedTo, r.CreatedAt)
	if err != nil {
		return models.OfficialResponse{}, fmt.Errorf("insert response: %w", err)
	}
	return r, nil
}

func (p *Postgres) Responses(ctx context.Context, complaintID string) ([]models.OfficialResponse, error) {
	query := `
		SELECT id, complaint_id, officer_id, officer_name, message, status_changed_to, created_at
		FROM official_responses WHERE complaint_id = $1 ORDER BY created_at ASC
	`
	rows, err := p.db.Query(ctx, query, complaintID)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	var out []models.OfficialResponse
	for rows.Next() {
		var r models.OfficialResponse
		if err := rows.Scan(&r.ID, &r.ComplaintID, &r.OfficerID, &r.OfficerName,
			&r.Message, &r.StatusChangedTo, &r.CreatedAt); err != nil {
			p.logger.Errorw("Failed to scan response row", "error", err)
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *Postgres) Stats(ctx context.Context) (models.DashboardStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'Pending'),
			COUNT(*) FILTER (WHERE status = 'In Progress'),
			COUNT(*) FILTER (WHERE status = 'Resolved')
		FROM complaints
	`
	var s models.DashboardStats
	err := p.db.QueryRow(ctx, query).Scan(&s.Total, &s.Pending, &s.InProgress, &s.Resolved)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("query stats: %w", err)
	}
	return s, nil
}

// Ping reports database connectivity for the readiness probe.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}
