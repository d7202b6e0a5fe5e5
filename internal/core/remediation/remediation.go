// Package remediation は遅延した安全衛生教育に対する是正案の提案ユース
// ケースを提供します。提案文の生成そのものは Suggester 境界の実装に
// 委ねます。
package remediation

import (
	"context"
	"errors"
	"time"

	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/employee"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/training"
)

var (
	// ErrSuggesterUnavailable は提案の生成手段が構成されていない場合のエラーです。
	ErrSuggesterUnavailable = errors.New("remediation: suggester is not configured")
)

// Input は提案生成に渡す文脈です。
type Input struct {
	EmployeeName     string
	TrainingName     string
	DaysDelayed      int
	CompletionStatus training.Status
}

// Suggester は是正案の提案文を生成する境界です。
type Suggester interface {
	Suggest(ctx context.Context, in Input) (string, error)
}

// Clock は現在時刻の取得を抽象化します。
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Service は従業員と教育記録を突き合わせて提案を依頼します。
type Service struct {
	employees employee.UseCase
	trainings training.UseCase
	suggester Suggester
	clock     Clock
}

// UseCase は是正案ユースケースの公開インターフェースです。
type UseCase interface {
	Suggest(ctx context.Context, employeeID, trainingID string) (string, error)
}

// NewService は Service を生成します。
func NewService(employees employee.UseCase, trainings training.UseCase, suggester Suggester, clock Clock) *Service {
	if clock == nil {
		clock = systemClock{}
	}
	return &Service{employees: employees, trainings: trainings, suggester: suggester, clock: clock}
}

// Suggest は対象の従業員と教育モジュールを引き当て、期日からの遅延日数を
// 含む文脈で提案文を生成します。
func (s *Service) Suggest(ctx context.Context, employeeID, trainingID string) (string, error) {
	if s.suggester == nil {
		return "", ErrSuggesterUnavailable
	}

	emp, err := s.employees.GetEmployee(ctx, employee.GetEmployeeInput{ID: employeeID})
	if err != nil {
		return "", err
	}

	module, err := s.trainings.GetModule(ctx, trainingID)
	if err != nil {
		return "", err
	}

	in := Input{
		EmployeeName:     emp.FullName(),
		TrainingName:     module.Name,
		DaysDelayed:      training.DaysDelayed(module, s.clock.Now()),
		CompletionStatus: module.Status,
	}

	return s.suggester.Suggest(ctx, in)
}
