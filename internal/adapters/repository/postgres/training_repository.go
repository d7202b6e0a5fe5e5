package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/training"
	pgdb "github.com/ogurasousui/codex-ehs-clean-arch/internal/platform/db/postgres"
)

// TrainingRepository は PostgreSQL を利用したトレーニングモジュール
// 永続化の実装です。
type TrainingRepository struct {
	pool pgdb.Queryer
}

// NewTrainingRepository は TrainingRepository を生成します。
func NewTrainingRepository(pool pgdb.Queryer) *TrainingRepository {
	return &TrainingRepository{pool: pool}
}

const trainingColumns = `
               id,
               employee_id,
               name,
               due_date,
               status,
               completion_date,
               score,
               created_at,
               updated_at`

// Create はモジュールを新規作成します。
func (r *TrainingRepository) Create(ctx context.Context, m *training.Module) (*training.Module, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO training_modules (id, employee_id, name, due_date, status, completion_date, score, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING`+trainingColumns,
		m.ID,
		m.EmployeeID,
		m.Name,
		m.DueDate,
		string(m.Status),
		nullableDate(m.CompletionDate),
		m.Score,
		m.CreatedAt,
		m.UpdatedAt,
	)

	created, err := scanModule(row)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update はモジュールを置き換えます。
func (r *TrainingRepository) Update(ctx context.Context, m *training.Module) (*training.Module, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE training_modules
           SET name = $1,
               due_date = $2,
               status = $3,
               completion_date = $4,
               score = $5,
               updated_at = $6
         WHERE id = $7
        RETURNING`+trainingColumns,
		m.Name,
		m.DueDate,
		string(m.Status),
		nullableDate(m.CompletionDate),
		m.Score,
		m.UpdatedAt,
		m.ID,
	)

	updated, err := scanModule(row)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// FindByID は ID でモジュールを取得します。
func (r *TrainingRepository) FindByID(ctx context.Context, id string) (*training.Module, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT`+trainingColumns+`
          FROM training_modules
         WHERE id = $1
         LIMIT 1
    `, id)

	return scanModule(row)
}

// ListByEmployee は従業員のモジュール一覧を期日順で取得します。
func (r *TrainingRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*training.Module, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT`+trainingColumns+`
          FROM training_modules
         WHERE employee_id = $1
         ORDER BY due_date, name
    `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	modules := make([]*training.Module, 0)
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return modules, nil
}

func scanModule(row pgx.Row) (*training.Module, error) {
	var (
		m              training.Module
		status         string
		completionDate sql.NullTime
		score          sql.NullInt32
	)

	if err := row.Scan(
		&m.ID,
		&m.EmployeeID,
		&m.Name,
		&m.DueDate,
		&status,
		&completionDate,
		&score,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, training.ErrModuleNotFound
		}
		return nil, err
	}

	m.Status = training.Status(status)
	m.CompletionDate = datePtr(completionDate)
	if score.Valid {
		s := int(score.Int32)
		m.Score = &s
	}
	m.DueDate = m.DueDate.UTC()
	return &m, nil
}
