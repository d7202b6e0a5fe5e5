package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/org"
)

// DepartmentRepository は部門ツリーへのアクセスを提供します。部門は
// 名前をキーとする集約として丸ごと読み書きされます。
type DepartmentRepository struct {
	store *Store
}

// NewDepartmentRepository は DepartmentRepository を生成します。
func NewDepartmentRepository(store *Store) *DepartmentRepository {
	return &DepartmentRepository{store: store}
}

// CreateDepartment は部門を保存します。
func (r *DepartmentRepository) CreateDepartment(_ context.Context, d *org.Department) (*org.Department, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	clone := org.CloneDepartment(d)
	r.store.departments[departmentKey(clone.Name)] = clone
	return org.CloneDepartment(clone), nil
}

// SaveDepartment は currentName で見つかる部門を丸ごと置き換えます。
// 改名の場合は旧キーを取り除きます。
func (r *DepartmentRepository) SaveDepartment(_ context.Context, currentName string, d *org.Department) (*org.Department, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := departmentKey(currentName)
	if _, ok := r.store.departments[key]; !ok {
		return nil, org.ErrDepartmentNotFound
	}

	delete(r.store.departments, key)
	clone := org.CloneDepartment(d)
	r.store.departments[departmentKey(clone.Name)] = clone
	return org.CloneDepartment(clone), nil
}

// DeleteDepartment は部門を削除します。
func (r *DepartmentRepository) DeleteDepartment(_ context.Context, name string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := departmentKey(name)
	if _, ok := r.store.departments[key]; !ok {
		return org.ErrDepartmentNotFound
	}
	delete(r.store.departments, key)
	return nil
}

// FindDepartment は名前で部門を取得します。大文字小文字は区別しません。
func (r *DepartmentRepository) FindDepartment(_ context.Context, name string) (*org.Department, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	d, ok := r.store.departments[departmentKey(name)]
	if !ok {
		return nil, org.ErrDepartmentNotFound
	}
	return org.CloneDepartment(d), nil
}

// ListDepartments は部門の一覧を名前順で返します。
func (r *DepartmentRepository) ListDepartments(_ context.Context) ([]*org.Department, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*org.Department, 0, len(r.store.departments))
	for _, d := range r.store.departments {
		result = append(result, org.CloneDepartment(d))
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}

func departmentKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
