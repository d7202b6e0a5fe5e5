package org

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

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

// Service は部門と職位ツリーのユースケースをまとめます。ツリーの変更は
// 集約の複製に対して行い、保存が成功するまでストアには反映されません。
type Service struct {
	repo      Repository
	employees EmployeeDirectory
	tx        TransactionManager
}

// UseCase は組織ユースケースの公開インターフェースです。
type UseCase interface {
	AddDepartment(ctx context.Context, name string) (*Department, error)
	EditDepartment(ctx context.Context, oldName, newName string) (*Department, error)
	RemoveDepartment(ctx context.Context, name string) error
	ListDepartments(ctx context.Context) ([]*Department, error)
	AddPosition(ctx context.Context, in AddPositionInput) (*Department, error)
	EditPosition(ctx context.Context, in EditPositionInput) (*Department, error)
	RemovePosition(ctx context.Context, departmentName, positionID string) (*Department, error)
	FlattenPositions(ctx context.Context, departmentName string) ([]FlatPosition, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, employees EmployeeDirectory, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, employees: employees, tx: tx}
}

// PositionData は職位の入力フィールドです。
type PositionData struct {
	Name                    string
	Description             string
	MedicalExamYears        float64
	FireProtectionExamYears float64
	RiskLevel               RiskLevel
	SpecialConditions       string
	RisksAndMeasures        []RiskAndMeasure
}

// AddPositionInput は職位追加時の入力です。ParentID が空の場合は部門
// 直下に追加します。
type AddPositionInput struct {
	DepartmentName string
	ParentID       string
	Data           PositionData
}

// EditPositionInput は職位の部分更新入力です。nil のフィールドは
// 変更されません。
type EditPositionInput struct {
	DepartmentName          string
	PositionID              string
	Name                    *string
	Description             *string
	MedicalExamYears        *float64
	FireProtectionExamYears *float64
	RiskLevel               *RiskLevel
	SpecialConditions       *string
	RisksAndMeasures        *[]RiskAndMeasure
}

// AddDepartment は部門を追加します。名前は大文字小文字を区別せず一意です。
func (s *Service) AddDepartment(ctx context.Context, name string) (*Department, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrInvalidName
	}

	var created *Department
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureDepartmentNotExists(txCtx, trimmed, ""); err != nil {
			return err
		}

		result, err := s.repo.CreateDepartment(txCtx, &Department{Name: trimmed})
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

// EditDepartment は部門を改名し、所属する従業員の部門フィールドを旧名
// から新名へ連鎖して書き換えます。
func (s *Service) EditDepartment(ctx context.Context, oldName, newName string) (*Department, error) {
	trimmed := strings.TrimSpace(newName)
	if trimmed == "" {
		return nil, ErrInvalidName
	}

	var updated *Department
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindDepartment(txCtx, oldName)
		if err != nil {
			return err
		}

		if !strings.EqualFold(existing.Name, trimmed) {
			if err := s.ensureDepartmentNotExists(txCtx, trimmed, existing.Name); err != nil {
				return err
			}
		}

		previousName := existing.Name
		existing.Name = trimmed

		result, err := s.repo.SaveDepartment(txCtx, previousName, existing)
		if err != nil {
			return err
		}

		if s.employees != nil && previousName != trimmed {
			if err := s.employees.RenameDepartment(txCtx, previousName, trimmed); err != nil {
				return err
			}
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// RemoveDepartment は部門を削除します。従業員が 1 人でも所属している
// 部門は削除できません。
func (s *Service) RemoveDepartment(ctx context.Context, name string) error {
	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindDepartment(txCtx, name)
		if err != nil {
			return err
		}

		if s.employees != nil {
			count, err := s.employees.CountByDepartment(txCtx, existing.Name)
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrDepartmentInUse
			}
		}

		return s.repo.DeleteDepartment(txCtx, existing.Name)
	})
}

// ListDepartments は部門の一覧を名前順で返します。
func (s *Service) ListDepartments(ctx context.Context) ([]*Department, error) {
	var departments []*Department
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.ListDepartments(txCtx)
		if err != nil {
			return err
		}
		departments = result
		return nil
	}); err != nil {
		return nil, err
	}
	return departments, nil
}

// AddPosition は職位をツリーへ追加します。追加先の兄弟集合内で名前が
// 衝突する場合は失敗します。兄弟は常に名前順に保たれます。
func (s *Service) AddPosition(ctx context.Context, in AddPositionInput) (*Department, error) {
	data, err := normalizePositionData(in.Data)
	if err != nil {
		return nil, err
	}

	var saved *Department
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		department, err := s.repo.FindDepartment(txCtx, in.DepartmentName)
		if err != nil {
			return err
		}

		siblings := &department.Positions
		if in.ParentID != "" {
			parent, _, _ := findPosition(department, in.ParentID)
			if parent == nil {
				return ErrParentPositionNotFound
			}
			siblings = &parent.SubPositions
		}

		if siblingNameTaken(*siblings, data.Name, "") {
			return ErrPositionNameAlreadyExists
		}

		position := &Position{
			ID:                      uuid.NewString(),
			Name:                    data.Name,
			Description:             data.Description,
			MedicalExamYears:        data.MedicalExamYears,
			FireProtectionExamYears: data.FireProtectionExamYears,
			RiskLevel:               data.RiskLevel,
			SpecialConditions:       data.SpecialConditions,
			RisksAndMeasures:        data.RisksAndMeasures,
		}
		if position.RisksAndMeasures == nil {
			position.RisksAndMeasures = []RiskAndMeasure{}
		}

		*siblings = append(*siblings, position)
		sortSiblings(*siblings)

		result, err := s.repo.SaveDepartment(txCtx, department.Name, department)
		if err != nil {
			return err
		}
		saved = result
		return nil
	}); err != nil {
		return nil, err
	}

	return saved, nil
}

// EditPosition は職位へ部分更新をマージします。改名時は同じ部門で旧名に
// 一致する従業員の職位フィールドを新名へ連鎖して書き換えます。連鎖は
// 職位 ID ではなく旧名での一致書き換えです。
func (s *Service) EditPosition(ctx context.Context, in EditPositionInput) (*Department, error) {
	var saved *Department
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		department, err := s.repo.FindDepartment(txCtx, in.DepartmentName)
		if err != nil {
			return err
		}

		position, siblings, _ := findPosition(department, in.PositionID)
		if position == nil {
			return ErrPositionNotFound
		}

		oldName := position.Name
		renamed := false

		if in.Name != nil {
			newName := strings.TrimSpace(*in.Name)
			if newName == "" {
				return ErrInvalidName
			}
			if !strings.EqualFold(oldName, newName) && siblingNameTaken(*siblings, newName, position.ID) {
				return ErrPositionNameAlreadyExists
			}
			renamed = newName != oldName
			position.Name = newName
		}
		if in.Description != nil {
			position.Description = strings.TrimSpace(*in.Description)
		}
		if in.MedicalExamYears != nil {
			if *in.MedicalExamYears < 0 {
				return ErrInvalidExamYears
			}
			position.MedicalExamYears = *in.MedicalExamYears
		}
		if in.FireProtectionExamYears != nil {
			if *in.FireProtectionExamYears < 0 {
				return ErrInvalidExamYears
			}
			position.FireProtectionExamYears = *in.FireProtectionExamYears
		}
		if in.RiskLevel != nil {
			if !isValidRiskLevel(*in.RiskLevel) {
				return ErrInvalidRiskLevel
			}
			position.RiskLevel = *in.RiskLevel
		}
		if in.SpecialConditions != nil {
			position.SpecialConditions = strings.TrimSpace(*in.SpecialConditions)
		}
		if in.RisksAndMeasures != nil {
			position.RisksAndMeasures = normalizeRisksAndMeasures(*in.RisksAndMeasures)
		}

		sortSiblings(*siblings)

		result, err := s.repo.SaveDepartment(txCtx, department.Name, department)
		if err != nil {
			return err
		}

		if s.employees != nil && renamed {
			if err := s.employees.RenamePosition(txCtx, department.Name, oldName, position.Name); err != nil {
				return err
			}
		}

		saved = result
		return nil
	}); err != nil {
		return nil, err
	}

	return saved, nil
}

// RemovePosition は職位をツリーから取り除きます。従業員が割り当てられて
// いるか、子の職位を持つノードは削除できません。
func (s *Service) RemovePosition(ctx context.Context, departmentName, positionID string) (*Department, error) {
	var saved *Department
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		department, err := s.repo.FindDepartment(txCtx, departmentName)
		if err != nil {
			return err
		}

		position, siblings, index := findPosition(department, positionID)
		if position == nil {
			return ErrPositionNotFound
		}

		if s.employees != nil {
			count, err := s.employees.CountByDepartmentAndPosition(txCtx, department.Name, position.Name)
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrPositionHasEmployees
			}
		}

		if len(position.SubPositions) > 0 {
			return ErrPositionHasChildren
		}

		*siblings = append((*siblings)[:index], (*siblings)[index+1:]...)

		result, err := s.repo.SaveDepartment(txCtx, department.Name, department)
		if err != nil {
			return err
		}
		saved = result
		return nil
	}); err != nil {
		return nil, err
	}

	return saved, nil
}

// FlattenPositions は部門のツリー全体を深さ優先・前順で平坦化して
// 返します。
func (s *Service) FlattenPositions(ctx context.Context, departmentName string) ([]FlatPosition, error) {
	var flat []FlatPosition
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		department, err := s.repo.FindDepartment(txCtx, departmentName)
		if err != nil {
			return err
		}
		flat = flattenPositions(department.Positions, 0, nil)
		return nil
	}); err != nil {
		return nil, err
	}
	return flat, nil
}

func (s *Service) ensureDepartmentNotExists(ctx context.Context, name, selfName string) error {
	existing, err := s.repo.FindDepartment(ctx, name)
	if err != nil && !errors.Is(err, ErrDepartmentNotFound) {
		return err
	}
	if existing != nil && !strings.EqualFold(existing.Name, selfName) {
		return ErrDepartmentAlreadyExists
	}
	return nil
}

func normalizePositionData(data PositionData) (PositionData, error) {
	data.Name = strings.TrimSpace(data.Name)
	if data.Name == "" {
		return PositionData{}, ErrInvalidName
	}
	if data.MedicalExamYears < 0 || data.FireProtectionExamYears < 0 {
		return PositionData{}, ErrInvalidExamYears
	}
	if data.RiskLevel == "" {
		data.RiskLevel = RiskLow
	}
	if !isValidRiskLevel(data.RiskLevel) {
		return PositionData{}, ErrInvalidRiskLevel
	}
	data.Description = strings.TrimSpace(data.Description)
	data.SpecialConditions = strings.TrimSpace(data.SpecialConditions)
	data.RisksAndMeasures = normalizeRisksAndMeasures(data.RisksAndMeasures)
	return data, nil
}

func normalizeRisksAndMeasures(entries []RiskAndMeasure) []RiskAndMeasure {
	if entries == nil {
		return nil
	}
	normalized := make([]RiskAndMeasure, 0, len(entries))
	for _, entry := range entries {
		entry.Risk = strings.TrimSpace(entry.Risk)
		entry.Measure = strings.TrimSpace(entry.Measure)
		if entry.Risk == "" && entry.Measure == "" {
			continue
		}
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		normalized = append(normalized, entry)
	}
	return normalized
}

func isValidRiskLevel(level RiskLevel) bool {
	switch level {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}
