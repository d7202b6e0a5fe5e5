package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/incident"
	pgdb "github.com/ogurasousui/codex-ehs-clean-arch/internal/platform/db/postgres"
)

// IncidentRepository は PostgreSQL を利用した安全インシデントログの
// 実装です。ログは追記専用です。
type IncidentRepository struct {
	pool pgdb.Queryer
}

// NewIncidentRepository は IncidentRepository を生成します。
func NewIncidentRepository(pool pgdb.Queryer) *IncidentRepository {
	return &IncidentRepository{pool: pool}
}

// Create はインシデントを追記します。
func (r *IncidentRepository) Create(ctx context.Context, in *incident.Incident) (*incident.Incident, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO safety_incidents (id, employee_id, date, description, type, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, employee_id, date, description, type, created_at
    `,
		in.ID,
		in.EmployeeID,
		in.Date,
		in.Description,
		string(in.Type),
		in.CreatedAt,
	)

	return scanIncident(row)
}

// ListByEmployee は従業員のインシデント一覧を記録順で取得します。
func (r *IncidentRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*incident.Incident, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, employee_id, date, description, type, created_at
          FROM safety_incidents
         WHERE employee_id = $1
         ORDER BY created_at, id
    `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incidents := make([]*incident.Incident, 0)
	for rows.Next() {
		in, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, in)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return incidents, nil
}

func scanIncident(row pgx.Row) (*incident.Incident, error) {
	var (
		in           incident.Incident
		incidentType string
	)

	if err := row.Scan(
		&in.ID,
		&in.EmployeeID,
		&in.Date,
		&in.Description,
		&incidentType,
		&in.CreatedAt,
	); err != nil {
		return nil, err
	}

	in.Type = incident.Type(incidentType)
	in.Date = in.Date.UTC()
	return &in, nil
}
