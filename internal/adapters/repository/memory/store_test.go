package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/employee"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/org"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/ppe"
)

func TestEmployeeRepository_CloneIsolation(t *testing.T) {
	t.Parallel()

	store := NewStore()
	repo := NewEmployeeRepository(store)

	created, err := repo.Create(context.Background(), &employee.Employee{
		ID:             "emp-1",
		EmployeeID:     "E2001",
		FirstName:      "Anna",
		LastName:       "Koval",
		Certifications: []string{"First Aid"},
		Status:         employee.StatusActive,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// 返却値を書き換えてもストアには影響しない
	created.FirstName = "Changed"
	created.Certifications[0] = "Changed"

	found, err := repo.FindByID(context.Background(), "emp-1")
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found.FirstName != "Anna" {
		t.Fatalf("store must be isolated from caller mutation, got %s", found.FirstName)
	}
	if found.Certifications[0] != "First Aid" {
		t.Fatalf("certification slice must be cloned, got %s", found.Certifications[0])
	}
}

func TestEmployeeRepository_FindByEmployeeID_CaseInsensitive(t *testing.T) {
	t.Parallel()

	store := NewStore()
	repo := NewEmployeeRepository(store)

	if _, err := repo.Create(context.Background(), &employee.Employee{ID: "emp-1", EmployeeID: "E2001"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	found, err := repo.FindByEmployeeID(context.Background(), "e2001")
	if err != nil {
		t.Fatalf("FindByEmployeeID returned error: %v", err)
	}
	if found.ID != "emp-1" {
		t.Fatalf("unexpected employee: %+v", found)
	}

	if _, err := repo.FindByEmployeeID(context.Background(), "E9999"); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestLedgerRepository_CheckoutDecrementsStockAtomically(t *testing.T) {
	t.Parallel()

	store := NewStore()
	repo := NewLedgerRepository(store)
	now := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

	if _, err := repo.CreateEquipment(context.Background(), &ppe.Equipment{ID: "eq-1", Name: "Helmet", Stock: 1}); err != nil {
		t.Fatalf("CreateEquipment returned error: %v", err)
	}

	if _, err := repo.CreateCheckout(context.Background(), &ppe.Checkout{ID: "c1", EmployeeID: "1", EquipmentID: "eq-1", CheckoutDate: now, CreatedAt: now}); err != nil {
		t.Fatalf("CreateCheckout returned error: %v", err)
	}

	eq, err := repo.FindEquipmentByID(context.Background(), "eq-1")
	if err != nil {
		t.Fatalf("FindEquipmentByID returned error: %v", err)
	}
	if eq.Stock != 0 {
		t.Fatalf("expected stock 0 after checkout, got %d", eq.Stock)
	}

	_, err = repo.CreateCheckout(context.Background(), &ppe.Checkout{ID: "c2", EmployeeID: "2", EquipmentID: "eq-1", CheckoutDate: now, CreatedAt: now})
	if !errors.Is(err, ppe.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}

	// 失敗した払い出しはレコードを残さない
	if _, err := repo.FindCheckoutByID(context.Background(), "c2"); !errors.Is(err, ppe.ErrCheckoutNotFound) {
		t.Fatalf("failed checkout must not be recorded, got %v", err)
	}
}

func TestLedgerRepository_DeliveryIncrementsStock(t *testing.T) {
	t.Parallel()

	store := NewStore()
	repo := NewLedgerRepository(store)
	now := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

	if _, err := repo.CreateEquipment(context.Background(), &ppe.Equipment{ID: "eq-1", Name: "Gloves", Stock: 3}); err != nil {
		t.Fatalf("CreateEquipment returned error: %v", err)
	}

	if _, err := repo.CreateDelivery(context.Background(), &ppe.InboundDelivery{ID: "d1", EquipmentID: "eq-1", Quantity: 7, DeliveryDate: now, CreatedAt: now}); err != nil {
		t.Fatalf("CreateDelivery returned error: %v", err)
	}

	eq, err := repo.FindEquipmentByID(context.Background(), "eq-1")
	if err != nil {
		t.Fatalf("FindEquipmentByID returned error: %v", err)
	}
	if eq.Stock != 10 {
		t.Fatalf("expected stock 10 after delivery, got %d", eq.Stock)
	}

	deliveries, err := repo.ListDeliveries(context.Background())
	if err != nil {
		t.Fatalf("ListDeliveries returned error: %v", err)
	}
	if len(deliveries) != 1 || deliveries[0].Quantity != 7 {
		t.Fatalf("unexpected deliveries: %+v", deliveries)
	}

	if _, err := repo.CreateDelivery(context.Background(), &ppe.InboundDelivery{ID: "d2", EquipmentID: "eq-missing", Quantity: 1, DeliveryDate: now}); !errors.Is(err, ppe.ErrEquipmentNotFound) {
		t.Fatalf("expected ErrEquipmentNotFound, got %v", err)
	}
}

func TestDepartmentRepository_SaveRenamesKey(t *testing.T) {
	t.Parallel()

	store := NewStore()
	repo := NewDepartmentRepository(store)

	if _, err := repo.CreateDepartment(context.Background(), &org.Department{Name: "Production"}); err != nil {
		t.Fatalf("CreateDepartment returned error: %v", err)
	}

	if _, err := repo.SaveDepartment(context.Background(), "production", &org.Department{Name: "Manufacturing"}); err != nil {
		t.Fatalf("SaveDepartment returned error: %v", err)
	}

	if _, err := repo.FindDepartment(context.Background(), "Production"); !errors.Is(err, org.ErrDepartmentNotFound) {
		t.Fatalf("old key must be removed, got %v", err)
	}

	found, err := repo.FindDepartment(context.Background(), "MANUFACTURING")
	if err != nil {
		t.Fatalf("FindDepartment returned error: %v", err)
	}
	if found.Name != "Manufacturing" {
		t.Fatalf("unexpected department: %+v", found)
	}
}

func TestSeed_PopulatesCollections(t *testing.T) {
	t.Parallel()

	store := NewStore()
	now := time.Date(2025, time.June, 2, 9, 30, 0, 0, time.UTC)
	Seed(store, now)

	employees, err := NewEmployeeRepository(store).List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(employees) != 8 {
		t.Fatalf("expected 8 seeded employees, got %d", len(employees))
	}

	departments, err := NewDepartmentRepository(store).ListDepartments(context.Background())
	if err != nil {
		t.Fatalf("ListDepartments returned error: %v", err)
	}
	if len(departments) != 7 {
		t.Fatalf("expected 7 seeded departments, got %d", len(departments))
	}

	equipment, err := NewLedgerRepository(store).ListEquipment(context.Background())
	if err != nil {
		t.Fatalf("ListEquipment returned error: %v", err)
	}
	if len(equipment) != 13 {
		t.Fatalf("expected 13 seeded equipment items, got %d", len(equipment))
	}

	modules, err := NewTrainingRepository(store).ListByEmployee(context.Background(), "1")
	if err != nil {
		t.Fatalf("ListByEmployee returned error: %v", err)
	}
	if len(modules) != 3 {
		t.Fatalf("expected 3 seeded modules for employee 1, got %d", len(modules))
	}

	incidents, err := NewIncidentRepository(store).ListByEmployee(context.Background(), "6")
	if err != nil {
		t.Fatalf("ListByEmployee returned error: %v", err)
	}
	if len(incidents) != 1 {
		t.Fatalf("expected 1 seeded incident for employee 6, got %d", len(incidents))
	}
}
