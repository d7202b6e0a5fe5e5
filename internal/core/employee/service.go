package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は従業員に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase は従業員ユースケースの公開インターフェースです。
type UseCase interface {
	AddEmployee(ctx context.Context, in AddEmployeeInput) (*Employee, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// AddEmployeeInput は従業員登録時の入力です。
type AddEmployeeInput struct {
	EmployeeID           string
	FirstName            string
	LastName             string
	Gender               Gender
	DateOfBirth          *time.Time
	SocialSecurityNumber string
	Residence            string
	Municipality         string
	Profession           string
	Email                string
	EmploymentDate       *time.Time
	Department           string
	Position             string
	Certifications       []string
	Status               *Status
}

// UpdateEmployeeInput は従業員更新時の入力です。レコード全体を置き換えます。
type UpdateEmployeeInput struct {
	ID                   string
	EmployeeID           string
	FirstName            string
	LastName             string
	Gender               Gender
	DateOfBirth          *time.Time
	SocialSecurityNumber string
	Residence            string
	Municipality         string
	Profession           string
	Email                string
	EmploymentDate       *time.Time
	TerminationDate      *time.Time
	Department           string
	Position             string
	Certifications       []string
	Status               Status
}

// GetEmployeeInput は従業員取得時の入力です。
type GetEmployeeInput struct {
	ID string
}

// AddEmployee は新しい従業員を登録します。EmployeeID は全従業員を通して一意です。
func (s *Service) AddEmployee(ctx context.Context, in AddEmployeeInput) (*Employee, error) {
	employeeID, err := normalizeEmployeeID(in.EmployeeID)
	if err != nil {
		return nil, err
	}

	firstName := strings.TrimSpace(in.FirstName)
	if firstName == "" {
		return nil, ErrInvalidFirstName
	}
	lastName := strings.TrimSpace(in.LastName)
	if lastName == "" {
		return nil, ErrInvalidLastName
	}

	if in.Gender != "" && !isValidGender(in.Gender) {
		return nil, ErrInvalidGender
	}

	status := StatusActive
	if in.Status != nil {
		if !isValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status = *in.Status
	}

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureEmployeeIDNotExists(txCtx, employeeID, ""); err != nil {
			return err
		}

		now := s.clock.Now()
		emp := &Employee{
			ID:                   uuid.NewString(),
			EmployeeID:           employeeID,
			FirstName:            firstName,
			LastName:             lastName,
			Gender:               in.Gender,
			DateOfBirth:          normalizeDate(in.DateOfBirth),
			SocialSecurityNumber: strings.TrimSpace(in.SocialSecurityNumber),
			Residence:            strings.TrimSpace(in.Residence),
			Municipality:         strings.TrimSpace(in.Municipality),
			Profession:           strings.TrimSpace(in.Profession),
			Email:                strings.ToLower(strings.TrimSpace(in.Email)),
			EmploymentDate:       normalizeDate(in.EmploymentDate),
			Department:           strings.TrimSpace(in.Department),
			Position:             strings.TrimSpace(in.Position),
			Certifications:       cloneStrings(in.Certifications),
			Status:               status,
			CreatedAt:            now,
			UpdatedAt:            now,
		}

		result, err := s.repo.Create(txCtx, emp)
		if err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateEmployee は既存の従業員レコードを置き換えます。削除操作は提供しません。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	employeeID, err := normalizeEmployeeID(in.EmployeeID)
	if err != nil {
		return nil, err
	}

	firstName := strings.TrimSpace(in.FirstName)
	if firstName == "" {
		return nil, ErrInvalidFirstName
	}
	lastName := strings.TrimSpace(in.LastName)
	if lastName == "" {
		return nil, ErrInvalidLastName
	}

	if in.Gender != "" && !isValidGender(in.Gender) {
		return nil, ErrInvalidGender
	}
	if !isValidStatus(in.Status) {
		return nil, ErrInvalidStatus
	}

	employmentDate := normalizeDate(in.EmploymentDate)
	terminationDate := normalizeDate(in.TerminationDate)
	if err := validateEmploymentPeriod(employmentDate, terminationDate); err != nil {
		return nil, err
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}

		if !strings.EqualFold(existing.EmployeeID, employeeID) {
			if err := s.ensureEmployeeIDNotExists(txCtx, employeeID, existing.ID); err != nil {
				return err
			}
		}

		existing.EmployeeID = employeeID
		existing.FirstName = firstName
		existing.LastName = lastName
		existing.Gender = in.Gender
		existing.DateOfBirth = normalizeDate(in.DateOfBirth)
		existing.SocialSecurityNumber = strings.TrimSpace(in.SocialSecurityNumber)
		existing.Residence = strings.TrimSpace(in.Residence)
		existing.Municipality = strings.TrimSpace(in.Municipality)
		existing.Profession = strings.TrimSpace(in.Profession)
		existing.Email = strings.ToLower(strings.TrimSpace(in.Email))
		existing.EmploymentDate = employmentDate
		existing.TerminationDate = terminationDate
		existing.Department = strings.TrimSpace(in.Department)
		existing.Position = strings.TrimSpace(in.Position)
		existing.Certifications = cloneStrings(in.Certifications)
		existing.Status = in.Status
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// GetEmployee は従業員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListEmployees は従業員の一覧を返します。
func (s *Service) ListEmployees(ctx context.Context) ([]*Employee, error) {
	var employees []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}
		employees = result
		return nil
	}); err != nil {
		return nil, err
	}

	return employees, nil
}

func (s *Service) ensureEmployeeIDNotExists(ctx context.Context, employeeID, selfID string) error {
	emp, err := s.repo.FindByEmployeeID(ctx, employeeID)
	if err != nil && !errors.Is(err, ErrEmployeeNotFound) {
		return err
	}
	if emp != nil && emp.ID != selfID {
		return ErrEmployeeIDAlreadyExists
	}
	return nil
}

func normalizeEmployeeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidEmployeeID
	}
	return strings.ToUpper(trimmed), nil
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	normalized := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &normalized
}

func validateEmploymentPeriod(employmentDate, terminationDate *time.Time) error {
	if employmentDate == nil || terminationDate == nil {
		return nil
	}
	if terminationDate.Before(*employmentDate) {
		return ErrInvalidDateRange
	}
	return nil
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	clone := make([]string, len(values))
	copy(clone, values)
	return clone
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusActive, StatusOnLeave, StatusTerminated:
		return true
	default:
		return false
	}
}

func isValidGender(gender Gender) bool {
	switch gender {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}
