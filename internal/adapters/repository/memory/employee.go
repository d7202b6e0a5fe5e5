package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/employee"
)

// EmployeeRepository は従業員コレクションへのアクセスを提供します。
// employee.Repository に加えて、他モジュールが必要とする存在確認と
// 参照整合性の境界 (EmployeeFinder / org.EmployeeDirectory) も実装します。
type EmployeeRepository struct {
	store *Store
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(store *Store) *EmployeeRepository {
	return &EmployeeRepository{store: store}
}

// Create は従業員を保存します。
func (r *EmployeeRepository) Create(_ context.Context, e *employee.Employee) (*employee.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	clone := cloneEmployee(e)
	r.store.employees[clone.ID] = clone
	return cloneEmployee(clone), nil
}

// Update は従業員レコードを丸ごと置き換えます。
func (r *EmployeeRepository) Update(_ context.Context, e *employee.Employee) (*employee.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.employees[e.ID]; !ok {
		return nil, employee.ErrEmployeeNotFound
	}

	clone := cloneEmployee(e)
	r.store.employees[clone.ID] = clone
	return cloneEmployee(clone), nil
}

// FindByID は ID で従業員を取得します。
func (r *EmployeeRepository) FindByID(_ context.Context, id string) (*employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return cloneEmployee(e), nil
}

// FindByEmployeeID は社員番号で従業員を取得します。大文字小文字は
// 区別しません。
func (r *EmployeeRepository) FindByEmployeeID(_ context.Context, employeeID string) (*employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, e := range r.store.employees {
		if strings.EqualFold(e.EmployeeID, employeeID) {
			return cloneEmployee(e), nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

// List は従業員の一覧を社員番号順で返します。
func (r *EmployeeRepository) List(_ context.Context) ([]*employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*employee.Employee, 0, len(r.store.employees))
	for _, e := range r.store.employees {
		result = append(result, cloneEmployee(e))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EmployeeID < result[j].EmployeeID
	})
	return result, nil
}

// EmployeeExists は ID の従業員が存在するかを返します。
func (r *EmployeeRepository) EmployeeExists(_ context.Context, id string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.employees[id]
	return ok, nil
}

// CountByDepartment は部門に所属する従業員数を返します。
func (r *EmployeeRepository) CountByDepartment(_ context.Context, department string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, e := range r.store.employees {
		if e.Department == department {
			count++
		}
	}
	return count, nil
}

// CountByDepartmentAndPosition は部門と職位の両方に一致する従業員数を
// 返します。
func (r *EmployeeRepository) CountByDepartmentAndPosition(_ context.Context, department, position string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, e := range r.store.employees {
		if e.Department == department && e.Position == position {
			count++
		}
	}
	return count, nil
}

// RenameDepartment は旧部門名を持つ全従業員の部門フィールドを書き換えます。
func (r *EmployeeRepository) RenameDepartment(_ context.Context, oldName, newName string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, e := range r.store.employees {
		if e.Department == oldName {
			e.Department = newName
		}
	}
	return nil
}

// RenamePosition は部門内で旧職位名を持つ全従業員の職位フィールドを
// 書き換えます。
func (r *EmployeeRepository) RenamePosition(_ context.Context, department, oldName, newName string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, e := range r.store.employees {
		if e.Department == department && e.Position == oldName {
			e.Position = newName
		}
	}
	return nil
}

func cloneEmployee(e *employee.Employee) *employee.Employee {
	clone := *e
	if e.DateOfBirth != nil {
		dob := *e.DateOfBirth
		clone.DateOfBirth = &dob
	}
	if e.EmploymentDate != nil {
		d := *e.EmploymentDate
		clone.EmploymentDate = &d
	}
	if e.TerminationDate != nil {
		d := *e.TerminationDate
		clone.TerminationDate = &d
	}
	if e.Certifications != nil {
		clone.Certifications = append([]string(nil), e.Certifications...)
	}
	return &clone
}
