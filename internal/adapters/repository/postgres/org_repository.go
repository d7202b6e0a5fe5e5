package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/org"
	pgdb "github.com/ogurasousui/codex-ehs-clean-arch/internal/platform/db/postgres"
)

// DepartmentRepository は PostgreSQL を利用した部門ツリー永続化の
// 実装です。職位は parent_id を持つフラットな行として保存し、読み出し
// 時にツリーへ組み立てます。保存は集約全体の削除と再挿入で行うため、
// 呼び出し側のトランザクション内で使う前提です。
type DepartmentRepository struct {
	pool pgdb.Queryer
}

// NewDepartmentRepository は DepartmentRepository を生成します。
func NewDepartmentRepository(pool pgdb.Queryer) *DepartmentRepository {
	return &DepartmentRepository{pool: pool}
}

type positionRow struct {
	position *org.Position
	parentID string
}

// CreateDepartment は部門を新規作成します。
func (r *DepartmentRepository) CreateDepartment(ctx context.Context, d *org.Department) (*org.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `INSERT INTO departments (name) VALUES ($1)`, d.Name); err != nil {
		return nil, translateOrgPgError(err)
	}
	if err := insertPositions(ctx, exec, d.Name, "", d.Positions); err != nil {
		return nil, translateOrgPgError(err)
	}
	return org.CloneDepartment(d), nil
}

// SaveDepartment は currentName で見つかる部門を丸ごと置き換えます。
func (r *DepartmentRepository) SaveDepartment(ctx context.Context, currentName string, d *org.Department) (*org.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	tag, err := exec.Exec(ctx, `UPDATE departments SET name = $1 WHERE lower(name) = lower($2)`, d.Name, currentName)
	if err != nil {
		return nil, translateOrgPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, org.ErrDepartmentNotFound
	}

	if _, err := exec.Exec(ctx, `DELETE FROM org_positions WHERE department_name = $1`, d.Name); err != nil {
		return nil, translateOrgPgError(err)
	}
	if err := insertPositions(ctx, exec, d.Name, "", d.Positions); err != nil {
		return nil, translateOrgPgError(err)
	}
	return org.CloneDepartment(d), nil
}

// DeleteDepartment は部門を削除します。職位は外部キーの連鎖で消えます。
func (r *DepartmentRepository) DeleteDepartment(ctx context.Context, name string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM departments WHERE lower(name) = lower($1)`, name)
	if err != nil {
		return translateOrgPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return org.ErrDepartmentNotFound
	}
	return nil
}

// FindDepartment は名前で部門をツリーごと取得します。大文字小文字は
// 区別しません。
func (r *DepartmentRepository) FindDepartment(ctx context.Context, name string) (*org.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var canonical string
	if err := exec.QueryRow(ctx, `SELECT name FROM departments WHERE lower(name) = lower($1) LIMIT 1`, name).Scan(&canonical); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, org.ErrDepartmentNotFound
		}
		return nil, err
	}

	positions, err := loadPositions(ctx, exec, canonical)
	if err != nil {
		return nil, err
	}

	return &org.Department{Name: canonical, Positions: positions}, nil
}

// ListDepartments は部門の一覧をツリーごと名前順で取得します。
func (r *DepartmentRepository) ListDepartments(ctx context.Context) ([]*org.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	rows, err := exec.Query(ctx, `SELECT name FROM departments ORDER BY lower(name)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	departments := make([]*org.Department, 0, len(names))
	for _, name := range names {
		positions, err := loadPositions(ctx, exec, name)
		if err != nil {
			return nil, err
		}
		departments = append(departments, &org.Department{Name: name, Positions: positions})
	}
	return departments, nil
}

func insertPositions(ctx context.Context, exec pgdb.Queryer, departmentName, parentID string, positions []*org.Position) error {
	for _, p := range positions {
		risks, err := json.Marshal(p.RisksAndMeasures)
		if err != nil {
			return fmt.Errorf("marshal risks for position %s: %w", p.ID, err)
		}

		if _, err := exec.Exec(ctx, `
            INSERT INTO org_positions (id, department_name, parent_id, name, description, medical_exam_years, fire_protection_exam_years, risk_level, special_conditions, risks_and_measures)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        `,
			p.ID,
			departmentName,
			nullableString(parentID),
			p.Name,
			p.Description,
			p.MedicalExamYears,
			p.FireProtectionExamYears,
			string(p.RiskLevel),
			p.SpecialConditions,
			risks,
		); err != nil {
			return err
		}

		if err := insertPositions(ctx, exec, departmentName, p.ID, p.SubPositions); err != nil {
			return err
		}
	}
	return nil
}

func loadPositions(ctx context.Context, exec pgdb.Queryer, departmentName string) ([]*org.Position, error) {
	rows, err := exec.Query(ctx, `
        SELECT id, parent_id, name, description, medical_exam_years, fire_protection_exam_years, risk_level, special_conditions, risks_and_measures
          FROM org_positions
         WHERE department_name = $1
    `, departmentName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flat := make([]positionRow, 0)
	for rows.Next() {
		var (
			p         org.Position
			parentID  sql.NullString
			riskLevel string
			risks     []byte
		)
		if err := rows.Scan(
			&p.ID,
			&parentID,
			&p.Name,
			&p.Description,
			&p.MedicalExamYears,
			&p.FireProtectionExamYears,
			&riskLevel,
			&p.SpecialConditions,
			&risks,
		); err != nil {
			return nil, err
		}

		p.RiskLevel = org.RiskLevel(riskLevel)
		if len(risks) > 0 {
			if err := json.Unmarshal(risks, &p.RisksAndMeasures); err != nil {
				return nil, fmt.Errorf("unmarshal risks for position %s: %w", p.ID, err)
			}
		}

		flat = append(flat, positionRow{position: &p, parentID: parentID.String})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return buildTree(flat), nil
}

func buildTree(flat []positionRow) []*org.Position {
	byID := make(map[string]*org.Position, len(flat))
	for _, row := range flat {
		byID[row.position.ID] = row.position
	}

	roots := make([]*org.Position, 0)
	for _, row := range flat {
		if row.parentID == "" {
			roots = append(roots, row.position)
			continue
		}
		parent, ok := byID[row.parentID]
		if !ok {
			roots = append(roots, row.position)
			continue
		}
		parent.SubPositions = append(parent.SubPositions, row.position)
	}

	var sortLevel func(positions []*org.Position)
	sortLevel = func(positions []*org.Position) {
		sort.Slice(positions, func(i, j int) bool {
			return strings.ToLower(positions[i].Name) < strings.ToLower(positions[j].Name)
		})
		for _, p := range positions {
			sortLevel(p.SubPositions)
		}
	}
	sortLevel(roots)

	return roots
}

func translateOrgPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return org.ErrDepartmentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolationCode {
			return org.ErrDepartmentAlreadyExists
		}
	}

	return err
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
