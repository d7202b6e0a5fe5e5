package training

import "context"

// Repository はトレーニングモジュール永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, module *Module) (*Module, error)
	Update(ctx context.Context, module *Module) (*Module, error)
	FindByID(ctx context.Context, id string) (*Module, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*Module, error)
}

// EmployeeFinder は従業員の存在確認に使う境界です。
type EmployeeFinder interface {
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
}
