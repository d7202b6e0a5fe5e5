package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/ppe"
)

// LedgerRepository は保護具在庫台帳へのアクセスを提供します。在庫の増減
// とレコード追記は同じクリティカルセクション内で適用されるため、払い
// 出しと入荷は常に不可分です。
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository は LedgerRepository を生成します。
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// CreateEquipment は品目を保存します。
func (r *LedgerRepository) CreateEquipment(_ context.Context, eq *ppe.Equipment) (*ppe.Equipment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	clone := cloneEquipment(eq)
	r.store.equipment[clone.ID] = clone
	return cloneEquipment(clone), nil
}

// UpdateEquipment は品目を置き換えます。
func (r *LedgerRepository) UpdateEquipment(_ context.Context, eq *ppe.Equipment) (*ppe.Equipment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.equipment[eq.ID]; !ok {
		return nil, ppe.ErrEquipmentNotFound
	}

	clone := cloneEquipment(eq)
	r.store.equipment[clone.ID] = clone
	return cloneEquipment(clone), nil
}

// DeleteEquipment は品目を削除します。
func (r *LedgerRepository) DeleteEquipment(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.equipment[id]; !ok {
		return ppe.ErrEquipmentNotFound
	}
	delete(r.store.equipment, id)
	return nil
}

// FindEquipmentByID は品目を取得します。
func (r *LedgerRepository) FindEquipmentByID(_ context.Context, id string) (*ppe.Equipment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	eq, ok := r.store.equipment[id]
	if !ok {
		return nil, ppe.ErrEquipmentNotFound
	}
	return cloneEquipment(eq), nil
}

// FindEquipmentByName は名前で品目を取得します。大文字小文字は区別
// しません。
func (r *LedgerRepository) FindEquipmentByName(_ context.Context, name string) (*ppe.Equipment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, eq := range r.store.equipment {
		if strings.EqualFold(eq.Name, name) {
			return cloneEquipment(eq), nil
		}
	}
	return nil, ppe.ErrEquipmentNotFound
}

// ListEquipment は品目の一覧を名前順で返します。
func (r *LedgerRepository) ListEquipment(_ context.Context) ([]*ppe.Equipment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*ppe.Equipment, 0, len(r.store.equipment))
	for _, eq := range r.store.equipment {
		result = append(result, cloneEquipment(eq))
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}

// CreateCheckout は在庫を 1 減らし、払い出しレコードを追記します。
// 在庫が 1 未満の場合は何も変更せず ErrOutOfStock を返します。
func (r *LedgerRepository) CreateCheckout(_ context.Context, c *ppe.Checkout) (*ppe.Checkout, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	eq, ok := r.store.equipment[c.EquipmentID]
	if !ok {
		return nil, ppe.ErrEquipmentNotFound
	}
	if eq.Stock < 1 {
		return nil, ppe.ErrOutOfStock
	}

	eq.Stock--
	eq.UpdatedAt = c.CreatedAt

	clone := cloneCheckout(c)
	r.store.checkouts[clone.ID] = clone
	return cloneCheckout(clone), nil
}

// UpdateCheckout は払い出しレコードを置き換えます。在庫には触れません。
func (r *LedgerRepository) UpdateCheckout(_ context.Context, c *ppe.Checkout) (*ppe.Checkout, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.checkouts[c.ID]; !ok {
		return nil, ppe.ErrCheckoutNotFound
	}

	clone := cloneCheckout(c)
	r.store.checkouts[clone.ID] = clone
	return cloneCheckout(clone), nil
}

// FindCheckoutByID は払い出しレコードを取得します。
func (r *LedgerRepository) FindCheckoutByID(_ context.Context, id string) (*ppe.Checkout, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.checkouts[id]
	if !ok {
		return nil, ppe.ErrCheckoutNotFound
	}
	return cloneCheckout(c), nil
}

// ListCheckouts は払い出しレコードの一覧を払い出し日順で返します。
func (r *LedgerRepository) ListCheckouts(_ context.Context) ([]*ppe.Checkout, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*ppe.Checkout, 0, len(r.store.checkouts))
	for _, c := range r.store.checkouts {
		result = append(result, cloneCheckout(c))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CheckoutDate.Equal(result[j].CheckoutDate) {
			return result[i].ID < result[j].ID
		}
		return result[i].CheckoutDate.Before(result[j].CheckoutDate)
	})
	return result, nil
}

// HasCheckoutsForEquipment は品目を参照する払い出しレコードが存在する
// かを返します。
func (r *LedgerRepository) HasCheckoutsForEquipment(_ context.Context, equipmentID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, c := range r.store.checkouts {
		if c.EquipmentID == equipmentID {
			return true, nil
		}
	}
	return false, nil
}

// CreateDelivery は在庫を数量分増やし、入荷レコードを追記します。
func (r *LedgerRepository) CreateDelivery(_ context.Context, d *ppe.InboundDelivery) (*ppe.InboundDelivery, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	eq, ok := r.store.equipment[d.EquipmentID]
	if !ok {
		return nil, ppe.ErrEquipmentNotFound
	}

	eq.Stock += d.Quantity
	eq.UpdatedAt = d.CreatedAt

	clone := cloneDelivery(d)
	r.store.deliveries = append(r.store.deliveries, clone)
	return cloneDelivery(clone), nil
}

// ListDeliveries は入荷レコードの一覧を挿入順で返します。
func (r *LedgerRepository) ListDeliveries(_ context.Context) ([]*ppe.InboundDelivery, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*ppe.InboundDelivery, 0, len(r.store.deliveries))
	for _, d := range r.store.deliveries {
		result = append(result, cloneDelivery(d))
	}
	return result, nil
}

func cloneEquipment(eq *ppe.Equipment) *ppe.Equipment {
	clone := *eq
	return &clone
}

func cloneCheckout(c *ppe.Checkout) *ppe.Checkout {
	clone := *c
	return &clone
}

func cloneDelivery(d *ppe.InboundDelivery) *ppe.InboundDelivery {
	clone := *d
	return &clone
}
