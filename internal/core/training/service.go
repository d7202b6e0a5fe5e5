package training

import (
	"context"
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

// Service はトレーニングモジュールに関するユースケースをまとめます。
type Service struct {
	repo      Repository
	employees EmployeeFinder
	clock     Clock
}

// UseCase はトレーニングユースケースの公開インターフェースです。
type UseCase interface {
	AddModule(ctx context.Context, in AddModuleInput) (*Module, error)
	RecordCompletion(ctx context.Context, in RecordCompletionInput) (*Module, error)
	GetModule(ctx context.Context, id string) (*Module, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]*Module, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, employees EmployeeFinder, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, employees: employees, clock: clock}
}

// AddModuleInput はモジュール割り当て時の入力です。
type AddModuleInput struct {
	EmployeeID string
	Name       string
	DueDate    time.Time
	Status     *Status
}

// RecordCompletionInput は修了記録時の入力です。
type RecordCompletionInput struct {
	ID             string
	CompletionDate time.Time
	Score          int
}

// AddModule は従業員にトレーニングモジュールを割り当てます。
func (s *Service) AddModule(ctx context.Context, in AddModuleInput) (*Module, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		return nil, ErrInvalidEmployeeID
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
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

	status := StatusNotStarted
	if in.Status != nil {
		if !isValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status = *in.Status
	}

	now := s.clock.Now()
	module := &Module{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Name:       name,
		DueDate:    truncateToDay(in.DueDate),
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	return s.repo.Create(ctx, module)
}

// RecordCompletion はモジュールを修了済みにし、修了日とスコアを記録します。
func (s *Service) RecordCompletion(ctx context.Context, in RecordCompletionInput) (*Module, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	if in.Score < 0 || in.Score > 100 {
		return nil, ErrInvalidScore
	}

	module, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	completion := truncateToDay(in.CompletionDate)
	score := in.Score

	module.Status = StatusCompleted
	module.CompletionDate = &completion
	module.Score = &score
	module.UpdatedAt = s.clock.Now()

	return s.repo.Update(ctx, module)
}

// GetModule はモジュールを 1 件取得します。
func (s *Service) GetModule(ctx context.Context, id string) (*Module, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.repo.FindByID(ctx, id)
}

// ListForEmployee は従業員に割り当てられたモジュールの一覧を返します。
func (s *Service) ListForEmployee(ctx context.Context, employeeID string) ([]*Module, error) {
	if strings.TrimSpace(employeeID) == "" {
		return nil, ErrInvalidEmployeeID
	}
	return s.repo.ListByEmployee(ctx, strings.TrimSpace(employeeID))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusCompleted, StatusInProgress, StatusOverdue, StatusNotStarted:
		return true
	default:
		return false
	}
}
