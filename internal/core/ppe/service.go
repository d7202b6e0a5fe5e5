package ppe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

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

// Service は保護具の在庫台帳と払い出しのユースケースをまとめます。
type Service struct {
	repo      Repository
	employees EmployeeFinder
	clock     Clock
	tx        TransactionManager
}

// UseCase は保護具ユースケースの公開インターフェースです。
type UseCase interface {
	AddEquipment(ctx context.Context, in AddEquipmentInput) (*Equipment, error)
	EditEquipment(ctx context.Context, in EditEquipmentInput) (*Equipment, error)
	RemoveEquipment(ctx context.Context, id string) error
	ListEquipment(ctx context.Context) ([]*Equipment, error)
	Checkout(ctx context.Context, in CheckoutInput) (*Checkout, error)
	UpdateCheckout(ctx context.Context, in UpdateCheckoutInput) (*Checkout, error)
	ListCheckouts(ctx context.Context) ([]*Checkout, error)
	RecordDelivery(ctx context.Context, in RecordDeliveryInput) (*InboundDelivery, error)
	ListDeliveries(ctx context.Context) ([]*InboundDelivery, error)
	StockLevels(ctx context.Context) (map[string]int, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, employees EmployeeFinder, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, employees: employees, clock: clock, tx: tx}
}

// AddEquipmentInput はカタログ登録時の入力です。在庫は 0 から始まり、
// 入荷記録によってのみ増加します。
type AddEquipmentInput struct {
	Name          string
	RenewalMonths int
}

// EditEquipmentInput はカタログ更新時の入力です。
type EditEquipmentInput struct {
	ID            string
	Name          string
	RenewalMonths int
}

// CheckoutInput は払い出し時の入力です。
type CheckoutInput struct {
	EmployeeID  string
	EquipmentID string
	Size        string
	Notes       string
	IsPremature bool
}

// UpdateCheckoutInput は払い出し記録の訂正入力です。従業員と品目の参照は
// 変更できず、在庫も調整されません。
type UpdateCheckoutInput struct {
	ID           string
	CheckoutDate *time.Time
	Size         string
	Notes        string
	IsPremature  bool
}

// RecordDeliveryInput は入荷記録時の入力です。
type RecordDeliveryInput struct {
	EquipmentID string
	Quantity    int
	Notes       string
}

// AddEquipment は保護具カタログに品目を追加します。名前は大文字小文字を
// 区別せず一意です。
func (s *Service) AddEquipment(ctx context.Context, in AddEquipmentInput) (*Equipment, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if in.RenewalMonths < 0 {
		return nil, ErrInvalidRenewalMonths
	}

	var created *Equipment
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureEquipmentNameNotExists(txCtx, name, ""); err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repo.CreateEquipment(txCtx, &Equipment{
			ID:            uuid.NewString(),
			Name:          name,
			RenewalMonths: in.RenewalMonths,
			Stock:         0,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
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

// EditEquipment は品目名と更新期間を変更します。
func (s *Service) EditEquipment(ctx context.Context, in EditEquipmentInput) (*Equipment, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if in.RenewalMonths < 0 {
		return nil, ErrInvalidRenewalMonths
	}

	var updated *Equipment
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindEquipmentByID(txCtx, in.ID)
		if err != nil {
			return err
		}

		if !strings.EqualFold(existing.Name, name) {
			if err := s.ensureEquipmentNameNotExists(txCtx, name, existing.ID); err != nil {
				return err
			}
		}

		existing.Name = name
		existing.RenewalMonths = in.RenewalMonths
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.UpdateEquipment(txCtx, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// RemoveEquipment は品目をカタログから削除します。払い出し記録から参照
// されている品目は削除できません。
func (s *Service) RemoveEquipment(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.FindEquipmentByID(txCtx, id); err != nil {
			return err
		}

		inUse, err := s.repo.HasCheckoutsForEquipment(txCtx, id)
		if err != nil {
			return err
		}
		if inUse {
			return ErrEquipmentInUse
		}

		return s.repo.DeleteEquipment(txCtx, id)
	})
}

// ListEquipment はカタログの一覧を名前順で返します。
func (s *Service) ListEquipment(ctx context.Context) ([]*Equipment, error) {
	var equipment []*Equipment
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.ListEquipment(txCtx)
		if err != nil {
			return err
		}
		equipment = result
		return nil
	}); err != nil {
		return nil, err
	}
	return equipment, nil
}

// Checkout は保護具を従業員へ払い出します。在庫をちょうど 1 減らし、
// 払い出し記録を追記します。在庫が無い場合は ErrOutOfStock で失敗し、
// 在庫は変更されません。
func (s *Service) Checkout(ctx context.Context, in CheckoutInput) (*Checkout, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		return nil, ErrEmployeeNotFound
	}
	if strings.TrimSpace(in.EquipmentID) == "" {
		return nil, ErrEquipmentNotFound
	}

	if s.employees != nil {
		exists, err := s.employees.EmployeeExists(ctx, employeeID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrEmployeeNotFound
		}
	}

	var created *Checkout
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.FindEquipmentByID(txCtx, in.EquipmentID); err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repo.CreateCheckout(txCtx, &Checkout{
			ID:           uuid.NewString(),
			EmployeeID:   employeeID,
			EquipmentID:  in.EquipmentID,
			CheckoutDate: truncateToDay(now),
			IsPremature:  in.IsPremature,
			Size:         strings.TrimSpace(in.Size),
			Notes:        strings.TrimSpace(in.Notes),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
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

// UpdateCheckout は既存の払い出し記録を訂正します。
func (s *Service) UpdateCheckout(ctx context.Context, in UpdateCheckoutInput) (*Checkout, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var updated *Checkout
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindCheckoutByID(txCtx, in.ID)
		if err != nil {
			return err
		}

		if in.CheckoutDate != nil {
			existing.CheckoutDate = truncateToDay(*in.CheckoutDate)
		}
		existing.Size = strings.TrimSpace(in.Size)
		existing.Notes = strings.TrimSpace(in.Notes)
		existing.IsPremature = in.IsPremature
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.UpdateCheckout(txCtx, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// ListCheckouts は払い出し記録の一覧を返します。
func (s *Service) ListCheckouts(ctx context.Context) ([]*Checkout, error) {
	var checkouts []*Checkout
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.ListCheckouts(txCtx)
		if err != nil {
			return err
		}
		checkouts = result
		return nil
	}); err != nil {
		return nil, err
	}
	return checkouts, nil
}

// RecordDelivery は入荷を記録し、対象品目の在庫を数量分だけ増やします。
func (s *Service) RecordDelivery(ctx context.Context, in RecordDeliveryInput) (*InboundDelivery, error) {
	if in.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if strings.TrimSpace(in.EquipmentID) == "" {
		return nil, ErrEquipmentNotFound
	}

	var created *InboundDelivery
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.FindEquipmentByID(txCtx, in.EquipmentID); err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repo.CreateDelivery(txCtx, &InboundDelivery{
			ID:           uuid.NewString(),
			EquipmentID:  in.EquipmentID,
			Quantity:     in.Quantity,
			DeliveryDate: truncateToDay(now),
			Notes:        strings.TrimSpace(in.Notes),
			CreatedAt:    now,
		})
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

// ListDeliveries は入荷記録の一覧を返します。
func (s *Service) ListDeliveries(ctx context.Context) ([]*InboundDelivery, error) {
	var deliveries []*InboundDelivery
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.ListDeliveries(txCtx)
		if err != nil {
			return err
		}
		deliveries = result
		return nil
	}); err != nil {
		return nil, err
	}
	return deliveries, nil
}

// StockLevels は品目 ID をキーとした現在在庫のスナップショットを返します。
func (s *Service) StockLevels(ctx context.Context) (map[string]int, error) {
	equipment, err := s.ListEquipment(ctx)
	if err != nil {
		return nil, err
	}

	levels := make(map[string]int, len(equipment))
	for _, item := range equipment {
		levels[item.ID] = item.Stock
	}
	return levels, nil
}

func (s *Service) ensureEquipmentNameNotExists(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.FindEquipmentByName(ctx, name)
	if err != nil && !errors.Is(err, ErrEquipmentNotFound) {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return ErrEquipmentNameAlreadyExists
	}
	return nil
}
