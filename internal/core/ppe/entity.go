package ppe

import "time"

// Equipment は保護具カタログの 1 品目です。Stock は払い出しと入荷の操作
// だけが変更でき、負数にはなりません。RenewalMonths が 0 の品目には更新
// 期限がありません。
type Equipment struct {
	ID            string
	Name          string
	RenewalMonths int
	Stock         int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Checkout は従業員への保護具払い出しの記録です。IsPremature は紛失や
// 破損による更新期限前の再支給を表します。
type Checkout struct {
	ID           string
	EmployeeID   string
	EquipmentID  string
	CheckoutDate time.Time
	IsPremature  bool
	Size         string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InboundDelivery は入荷の記録です。DeliveryDate はサーバー側で当日の
// 日付が割り当てられます。
type InboundDelivery struct {
	ID           string
	EquipmentID  string
	Quantity     int
	DeliveryDate time.Time
	Notes        string
	CreatedAt    time.Time
}
