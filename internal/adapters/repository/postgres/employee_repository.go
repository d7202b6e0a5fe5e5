package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/employee"
	pgdb "github.com/ogurasousui/codex-ehs-clean-arch/internal/platform/db/postgres"
)

const (
	uniqueViolationCode = "23505"
	checkViolationCode  = "23514"
)

// EmployeeRepository は PostgreSQL を利用した従業員永続化の実装です。
// employee.Repository に加えて、他モジュール向けの存在確認と参照整合性の
// 境界も提供します。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

const employeeColumns = `
               id,
               employee_id,
               first_name,
               last_name,
               gender,
               date_of_birth,
               ssn,
               residence,
               municipality,
               profession,
               email,
               employment_date,
               termination_date,
               department,
               position,
               certifications,
               status,
               created_at,
               updated_at`

// Create は従業員を新規作成します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (id, employee_id, first_name, last_name, gender, date_of_birth, ssn, residence, municipality, profession, email, employment_date, termination_date, department, position, certifications, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
        RETURNING`+employeeColumns,
		e.ID,
		e.EmployeeID,
		e.FirstName,
		e.LastName,
		string(e.Gender),
		nullableDate(e.DateOfBirth),
		e.SocialSecurityNumber,
		e.Residence,
		e.Municipality,
		e.Profession,
		e.Email,
		nullableDate(e.EmploymentDate),
		nullableDate(e.TerminationDate),
		e.Department,
		e.Position,
		e.Certifications,
		string(e.Status),
		e.CreatedAt,
		e.UpdatedAt,
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// Update は従業員レコードを丸ごと置き換えます。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE employees
           SET employee_id = $1,
               first_name = $2,
               last_name = $3,
               gender = $4,
               date_of_birth = $5,
               ssn = $6,
               residence = $7,
               municipality = $8,
               profession = $9,
               email = $10,
               employment_date = $11,
               termination_date = $12,
               department = $13,
               position = $14,
               certifications = $15,
               status = $16,
               updated_at = $17
         WHERE id = $18
        RETURNING`+employeeColumns,
		e.EmployeeID,
		e.FirstName,
		e.LastName,
		string(e.Gender),
		nullableDate(e.DateOfBirth),
		e.SocialSecurityNumber,
		e.Residence,
		e.Municipality,
		e.Profession,
		e.Email,
		nullableDate(e.EmploymentDate),
		nullableDate(e.TerminationDate),
		e.Department,
		e.Position,
		e.Certifications,
		string(e.Status),
		e.UpdatedAt,
		e.ID,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// FindByID は ID で従業員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT`+employeeColumns+`
          FROM employees
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// FindByEmployeeID は社員番号で従業員を取得します。
func (r *EmployeeRepository) FindByEmployeeID(ctx context.Context, employeeID string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT`+employeeColumns+`
          FROM employees
         WHERE lower(employee_id) = lower($1)
         LIMIT 1
    `, employeeID)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// List は従業員の一覧を社員番号順で取得します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT`+employeeColumns+`
          FROM employees
         ORDER BY employee_id
    `)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}
	return employees, nil
}

// EmployeeExists は ID の従業員が存在するかを返します。
func (r *EmployeeRepository) EmployeeExists(ctx context.Context, id string) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var exists bool
	if err := exec.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// CountByDepartment は部門に所属する従業員数を返します。
func (r *EmployeeRepository) CountByDepartment(ctx context.Context, department string) (int, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var count int
	if err := exec.QueryRow(ctx, `SELECT count(*) FROM employees WHERE department = $1`, department).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountByDepartmentAndPosition は部門と職位の両方に一致する従業員数を返します。
func (r *EmployeeRepository) CountByDepartmentAndPosition(ctx context.Context, department, position string) (int, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var count int
	if err := exec.QueryRow(ctx, `SELECT count(*) FROM employees WHERE department = $1 AND position = $2`, department, position).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// RenameDepartment は旧部門名を持つ全従業員の部門フィールドを書き換えます。
func (r *EmployeeRepository) RenameDepartment(ctx context.Context, oldName, newName string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	_, err := exec.Exec(ctx, `UPDATE employees SET department = $1 WHERE department = $2`, newName, oldName)
	return err
}

// RenamePosition は部門内で旧職位名を持つ全従業員の職位フィールドを書き換えます。
func (r *EmployeeRepository) RenamePosition(ctx context.Context, department, oldName, newName string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	_, err := exec.Exec(ctx, `UPDATE employees SET position = $1 WHERE department = $2 AND position = $3`, newName, department, oldName)
	return err
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		e               employee.Employee
		gender          string
		status          string
		dateOfBirth     sql.NullTime
		employmentDate  sql.NullTime
		terminationDate sql.NullTime
	)

	if err := row.Scan(
		&e.ID,
		&e.EmployeeID,
		&e.FirstName,
		&e.LastName,
		&gender,
		&dateOfBirth,
		&e.SocialSecurityNumber,
		&e.Residence,
		&e.Municipality,
		&e.Profession,
		&e.Email,
		&employmentDate,
		&terminationDate,
		&e.Department,
		&e.Position,
		&e.Certifications,
		&status,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	e.Gender = employee.Gender(gender)
	e.Status = employee.Status(status)
	e.DateOfBirth = datePtr(dateOfBirth)
	e.EmploymentDate = datePtr(employmentDate)
	e.TerminationDate = datePtr(terminationDate)
	return &e, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return employee.ErrEmployeeIDAlreadyExists
		case checkViolationCode:
			return employee.ErrInvalidDateRange
		}
	}

	return err
}

func datePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time.UTC()
	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &date
}

func nullableDate(value *time.Time) any {
	if value == nil {
		return nil
	}
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}
