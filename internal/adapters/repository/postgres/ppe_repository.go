package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/ppe"
	pgdb "github.com/ogurasousui/codex-ehs-clean-arch/internal/platform/db/postgres"
)

// LedgerRepository は PostgreSQL を利用した保護具在庫台帳の実装です。
// 在庫の減算は stock >= 1 を条件とする 1 文の UPDATE で行うため、並行
// する払い出しが在庫を負にすることはありません。
type LedgerRepository struct {
	pool pgdb.Queryer
}

// NewLedgerRepository は LedgerRepository を生成します。
func NewLedgerRepository(pool pgdb.Queryer) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

const equipmentColumns = `id, name, renewal_months, stock, created_at, updated_at`
const checkoutColumns = `id, employee_id, equipment_id, checkout_date, is_premature, size, notes, created_at, updated_at`
const deliveryColumns = `id, equipment_id, quantity, delivery_date, notes, created_at`

// CreateEquipment は品目を新規作成します。
func (r *LedgerRepository) CreateEquipment(ctx context.Context, eq *ppe.Equipment) (*ppe.Equipment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO ppe_equipment (id, name, renewal_months, stock, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+equipmentColumns,
		eq.ID,
		eq.Name,
		eq.RenewalMonths,
		eq.Stock,
		eq.CreatedAt,
		eq.UpdatedAt,
	)

	created, err := scanEquipment(row)
	if err != nil {
		return nil, translateLedgerPgError(err)
	}
	return created, nil
}

// UpdateEquipment は品目の名前と更新期間を置き換えます。在庫には触れません。
func (r *LedgerRepository) UpdateEquipment(ctx context.Context, eq *ppe.Equipment) (*ppe.Equipment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE ppe_equipment
           SET name = $1,
               renewal_months = $2,
               updated_at = $3
         WHERE id = $4
        RETURNING `+equipmentColumns,
		eq.Name,
		eq.RenewalMonths,
		eq.UpdatedAt,
		eq.ID,
	)

	updated, err := scanEquipment(row)
	if err != nil {
		return nil, translateLedgerPgError(err)
	}
	return updated, nil
}

// DeleteEquipment は品目を削除します。
func (r *LedgerRepository) DeleteEquipment(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM ppe_equipment WHERE id = $1`, id)
	if err != nil {
		return translateLedgerPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ppe.ErrEquipmentNotFound
	}
	return nil
}

// FindEquipmentByID は ID で品目を取得します。
func (r *LedgerRepository) FindEquipmentByID(ctx context.Context, id string) (*ppe.Equipment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+equipmentColumns+`
          FROM ppe_equipment
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanEquipment(row)
	if err != nil {
		return nil, translateLedgerPgError(err)
	}
	return found, nil
}

// FindEquipmentByName は名前で品目を取得します。大文字小文字は区別しません。
func (r *LedgerRepository) FindEquipmentByName(ctx context.Context, name string) (*ppe.Equipment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+equipmentColumns+`
          FROM ppe_equipment
         WHERE lower(name) = lower($1)
         LIMIT 1
    `, name)

	found, err := scanEquipment(row)
	if err != nil {
		return nil, translateLedgerPgError(err)
	}
	return found, nil
}

// ListEquipment は品目の一覧を名前順で取得します。
func (r *LedgerRepository) ListEquipment(ctx context.Context) ([]*ppe.Equipment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+equipmentColumns+`
          FROM ppe_equipment
         ORDER BY lower(name)
    `)
	if err != nil {
		return nil, translateLedgerPgError(err)
	}
	defer rows.Close()

	equipment := make([]*ppe.Equipment, 0)
	for rows.Next() {
		eq, err := scanEquipment(rows)
		if err != nil {
			return nil, translateLedgerPgError(err)
		}
		equipment = append(equipment, eq)
	}

	if err := rows.Err(); err != nil {
		return nil, translateLedgerPgError(err)
	}
	return equipment, nil
}

// CreateCheckout は在庫を 1 減らし、払い出しレコードを追記します。
// 在庫が 1 未満の場合は ErrOutOfStock を返します。
func (r *LedgerRepository) CreateCheckout(ctx context.Context, c *ppe.Checkout) (*ppe.Checkout, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	tag, err := exec.Exec(ctx, `
        UPDATE ppe_equipment
           SET stock = stock - 1,
               updated_at = $1
         WHERE id = $2 AND stock >= 1
    `, c.CreatedAt, c.EquipmentID)
	if err != nil {
		return nil, translateLedgerPgError(err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := exec.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ppe_equipment WHERE id = $1)`, c.EquipmentID).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, ppe.ErrEquipmentNotFound
		}
		return nil, ppe.ErrOutOfStock
	}

	row := exec.QueryRow(ctx, `
        INSERT INTO ppe_checkouts (id, employee_id, equipment_id, checkout_date, is_premature, size, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING `+checkoutColumns,
		c.ID,
		c.EmployeeID,
		c.EquipmentID,
		c.CheckoutDate,
		c.IsPremature,
		c.Size,
		c.Notes,
		c.CreatedAt,
		c.UpdatedAt,
	)

	created, err := scanCheckout(row)
	if err != nil {
		return nil, translateLedgerPgError(err)
	}
	return created, nil
}

// UpdateCheckout は払い出しレコードを置き換えます。在庫には触れません。
func (r *LedgerRepository) UpdateCheckout(ctx context.Context, c *ppe.Checkout) (*ppe.Checkout, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE ppe_checkouts
           SET checkout_date = $1,
               is_premature = $2,
               size = $3,
               notes = $4,
               updated_at = $5
         WHERE id = $6
        RETURNING `+checkoutColumns,
		c.CheckoutDate,
		c.IsPremature,
		c.Size,
		c.Notes,
		c.UpdatedAt,
		c.ID,
	)

	updated, err := scanCheckout(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ppe.ErrCheckoutNotFound
		}
		return nil, translateLedgerPgError(err)
	}
	return updated, nil
}

// FindCheckoutByID は ID で払い出しレコードを取得します。
func (r *LedgerRepository) FindCheckoutByID(ctx context.Context, id string) (*ppe.Checkout, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+checkoutColumns+`
          FROM ppe_checkouts
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanCheckout(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ppe.ErrCheckoutNotFound
		}
		return nil, translateLedgerPgError(err)
	}
	return found, nil
}

// ListCheckouts は払い出しレコードの一覧を払い出し日順で取得します。
func (r *LedgerRepository) ListCheckouts(ctx context.Context) ([]*ppe.Checkout, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+checkoutColumns+`
          FROM ppe_checkouts
         ORDER BY checkout_date, id
    `)
	if err != nil {
		return nil, translateLedgerPgError(err)
	}
	defer rows.Close()

	checkouts := make([]*ppe.Checkout, 0)
	for rows.Next() {
		c, err := scanCheckout(rows)
		if err != nil {
			return nil, translateLedgerPgError(err)
		}
		checkouts = append(checkouts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, translateLedgerPgError(err)
	}
	return checkouts, nil
}

// HasCheckoutsForEquipment は品目を参照する払い出しレコードが存在する
// かを返します。
func (r *LedgerRepository) HasCheckoutsForEquipment(ctx context.Context, equipmentID string) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var exists bool
	if err := exec.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ppe_checkouts WHERE equipment_id = $1)`, equipmentID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// CreateDelivery は在庫を数量分増やし、入荷レコードを追記します。
func (r *LedgerRepository) CreateDelivery(ctx context.Context, d *ppe.InboundDelivery) (*ppe.InboundDelivery, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	tag, err := exec.Exec(ctx, `
        UPDATE ppe_equipment
           SET stock = stock + $1,
               updated_at = $2
         WHERE id = $3
    `, d.Quantity, d.CreatedAt, d.EquipmentID)
	if err != nil {
		return nil, translateLedgerPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ppe.ErrEquipmentNotFound
	}

	row := exec.QueryRow(ctx, `
        INSERT INTO ppe_deliveries (id, equipment_id, quantity, delivery_date, notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+deliveryColumns,
		d.ID,
		d.EquipmentID,
		d.Quantity,
		d.DeliveryDate,
		d.Notes,
		d.CreatedAt,
	)

	created, err := scanDelivery(row)
	if err != nil {
		return nil, translateLedgerPgError(err)
	}
	return created, nil
}

// ListDeliveries は入荷レコードの一覧を記録順で取得します。
func (r *LedgerRepository) ListDeliveries(ctx context.Context) ([]*ppe.InboundDelivery, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+deliveryColumns+`
          FROM ppe_deliveries
         ORDER BY created_at, id
    `)
	if err != nil {
		return nil, translateLedgerPgError(err)
	}
	defer rows.Close()

	deliveries := make([]*ppe.InboundDelivery, 0)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, translateLedgerPgError(err)
		}
		deliveries = append(deliveries, d)
	}

	if err := rows.Err(); err != nil {
		return nil, translateLedgerPgError(err)
	}
	return deliveries, nil
}

func scanEquipment(row pgx.Row) (*ppe.Equipment, error) {
	var eq ppe.Equipment
	if err := row.Scan(
		&eq.ID,
		&eq.Name,
		&eq.RenewalMonths,
		&eq.Stock,
		&eq.CreatedAt,
		&eq.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ppe.ErrEquipmentNotFound
		}
		return nil, err
	}
	return &eq, nil
}

func scanCheckout(row pgx.Row) (*ppe.Checkout, error) {
	var c ppe.Checkout
	if err := row.Scan(
		&c.ID,
		&c.EmployeeID,
		&c.EquipmentID,
		&c.CheckoutDate,
		&c.IsPremature,
		&c.Size,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.CheckoutDate = c.CheckoutDate.UTC()
	return &c, nil
}

func scanDelivery(row pgx.Row) (*ppe.InboundDelivery, error) {
	var d ppe.InboundDelivery
	if err := row.Scan(
		&d.ID,
		&d.EquipmentID,
		&d.Quantity,
		&d.DeliveryDate,
		&d.Notes,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	d.DeliveryDate = d.DeliveryDate.UTC()
	return &d, nil
}

func translateLedgerPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ppe.ErrEquipmentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return ppe.ErrEquipmentNameAlreadyExists
		case checkViolationCode:
			return ppe.ErrOutOfStock
		}
	}

	return err
}
