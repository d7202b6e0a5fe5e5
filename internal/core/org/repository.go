package org

import "context"

// Repository は部門ツリー永続化の抽象です。部門は名前をキーとする
// 集約として丸ごと読み書きします。
type Repository interface {
	CreateDepartment(ctx context.Context, department *Department) (*Department, error)
	// SaveDepartment は currentName で見つかる部門をまるごと置き換えます。
	// department.Name が異なる場合は改名になります。
	SaveDepartment(ctx context.Context, currentName string, department *Department) (*Department, error)
	DeleteDepartment(ctx context.Context, name string) error
	FindDepartment(ctx context.Context, name string) (*Department, error)
	ListDepartments(ctx context.Context) ([]*Department, error)
}

// EmployeeDirectory は従業員レコードへの参照整合性の境界です。部門や
// 職位の改名は、一致する従業員の所属フィールドへ連鎖して書き換えます。
type EmployeeDirectory interface {
	CountByDepartment(ctx context.Context, department string) (int, error)
	CountByDepartmentAndPosition(ctx context.Context, department, position string) (int, error)
	RenameDepartment(ctx context.Context, oldName, newName string) error
	RenamePosition(ctx context.Context, department, oldName, newName string) error
}
