package incident

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type は安全インシデントの分類です。
type Type string

const (
	TypeInjury         Type = "Injury"
	TypeNearMiss       Type = "Near Miss"
	TypePropertyDamage Type = "Property Damage"
)

// Incident は従業員に紐づく安全インシデントの記録です。追記専用で、
// 更新や削除の操作は提供しません。
type Incident struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	Description string
	Type        Type
	CreatedAt   time.Time
}

var (
	ErrInvalidEmployeeID  = errors.New("incident: invalid employee id")
	ErrInvalidDescription = errors.New("incident: invalid description")
	ErrInvalidType        = errors.New("incident: invalid type")
	ErrEmployeeNotFound   = errors.New("incident: employee not found")
)

// Repository はインシデントログ永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, incident *Incident) (*Incident, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*Incident, error)
}

// EmployeeFinder は従業員の存在確認に使う境界です。
type EmployeeFinder interface {
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
}

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Service はインシデントログのユースケースをまとめます。
type Service struct {
	repo      Repository
	employees EmployeeFinder
	clock     Clock
}

// UseCase はインシデントユースケースの公開インターフェースです。
type UseCase interface {
	ReportIncident(ctx context.Context, in ReportIncidentInput) (*Incident, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]*Incident, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, employees EmployeeFinder, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, employees: employees, clock: clock}
}

// ReportIncidentInput はインシデント報告時の入力です。Date が未指定の場合は
// 当日の日付が割り当てられます。
type ReportIncidentInput struct {
	EmployeeID  string
	Date        *time.Time
	Description string
	Type        Type
}

// ReportIncident はインシデントをログへ追記します。
func (s *Service) ReportIncident(ctx context.Context, in ReportIncidentInput) (*Incident, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		return nil, ErrInvalidEmployeeID
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, ErrInvalidDescription
	}

	switch in.Type {
	case TypeInjury, TypeNearMiss, TypePropertyDamage:
	default:
		return nil, ErrInvalidType
	}

	if s.employees != nil {
		exists, err := s.employees.EmployeeExists(ctx, employeeID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrEmployeeNotFound
		}
	}

	now := s.clock.Now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if in.Date != nil {
		date = time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, time.UTC)
	}

	return s.repo.Create(ctx, &Incident{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		Date:        date,
		Description: description,
		Type:        in.Type,
		CreatedAt:   now,
	})
}

// ListForEmployee は従業員のインシデント履歴を返します。
func (s *Service) ListForEmployee(ctx context.Context, employeeID string) ([]*Incident, error) {
	if strings.TrimSpace(employeeID) == "" {
		return nil, ErrInvalidEmployeeID
	}
	return s.repo.ListByEmployee(ctx, strings.TrimSpace(employeeID))
}
