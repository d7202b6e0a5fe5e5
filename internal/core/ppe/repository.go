package ppe

import "context"

// Repository は保護具在庫台帳の永続化抽象です。
//
// CreateCheckout と CreateDelivery は在庫の増減とレコード追記を単一の
// 不可分な操作として適用しなければなりません。CreateCheckout は在庫が
// 1 未満のとき ErrOutOfStock を返し、在庫を変更しません。
type Repository interface {
	CreateEquipment(ctx context.Context, equipment *Equipment) (*Equipment, error)
	UpdateEquipment(ctx context.Context, equipment *Equipment) (*Equipment, error)
	DeleteEquipment(ctx context.Context, id string) error
	FindEquipmentByID(ctx context.Context, id string) (*Equipment, error)
	FindEquipmentByName(ctx context.Context, name string) (*Equipment, error)
	ListEquipment(ctx context.Context) ([]*Equipment, error)

	CreateCheckout(ctx context.Context, checkout *Checkout) (*Checkout, error)
	UpdateCheckout(ctx context.Context, checkout *Checkout) (*Checkout, error)
	FindCheckoutByID(ctx context.Context, id string) (*Checkout, error)
	ListCheckouts(ctx context.Context) ([]*Checkout, error)
	HasCheckoutsForEquipment(ctx context.Context, equipmentID string) (bool, error)

	CreateDelivery(ctx context.Context, delivery *InboundDelivery) (*InboundDelivery, error)
	ListDeliveries(ctx context.Context) ([]*InboundDelivery, error)
}

// EmployeeFinder は従業員の存在確認に使う境界です。
type EmployeeFinder interface {
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
}
