//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/ogurasousui/codex-ehs-clean-arch/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/employee"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/org"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/ppe"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/platform/config"
	pg "github.com/ogurasousui/codex-ehs-clean-arch/internal/platform/db/postgres"
)

const migrationsDir = "assets/migrations"

func setupPool(t *testing.T) (context.Context, *pgxpool.Pool) {
	t.Helper()

	cfg, err := config.Load(configPathFromEnv())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if err := resetMigrations(cfg.Database.DSN(), migrationsDir); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	return ctx, pool
}

func TestPPECheckoutStockIntegration(t *testing.T) {
	ctx, pool := setupPool(t)

	tx := pg.NewTransactionManager(pool)
	employees := repo.NewEmployeeRepository(pool)
	employeeSvc := employee.NewService(employees, nil, tx)
	ppeSvc := ppe.NewService(repo.NewLedgerRepository(pool), employees, nil, tx)

	emp, err := employeeSvc.AddEmployee(ctx, employee.AddEmployeeInput{
		EmployeeID: "E9001",
		FirstName:  "Integration",
		LastName:   "Tester",
	})
	if err != nil {
		t.Fatalf("AddEmployee error: %v", err)
	}

	equipment, err := ppeSvc.AddEquipment(ctx, ppe.AddEquipmentInput{Name: "Integration Helmet", RenewalMonths: 12})
	if err != nil {
		t.Fatalf("AddEquipment error: %v", err)
	}

	if _, err := ppeSvc.RecordDelivery(ctx, ppe.RecordDeliveryInput{EquipmentID: equipment.ID, Quantity: 1}); err != nil {
		t.Fatalf("RecordDelivery error: %v", err)
	}

	if _, err := ppeSvc.Checkout(ctx, ppe.CheckoutInput{EmployeeID: emp.ID, EquipmentID: equipment.ID}); err != nil {
		t.Fatalf("Checkout error: %v", err)
	}

	_, err = ppeSvc.Checkout(ctx, ppe.CheckoutInput{EmployeeID: emp.ID, EquipmentID: equipment.ID})
	if !errors.Is(err, ppe.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}

	levels, err := ppeSvc.StockLevels(ctx)
	if err != nil {
		t.Fatalf("StockLevels error: %v", err)
	}
	if stock := levels[equipment.ID]; stock != 0 {
		t.Fatalf("expected stock 0, got %d", stock)
	}
}

func TestDepartmentRenameCascadeIntegration(t *testing.T) {
	ctx, pool := setupPool(t)

	tx := pg.NewTransactionManager(pool)
	employees := repo.NewEmployeeRepository(pool)
	employeeSvc := employee.NewService(employees, nil, tx)
	orgSvc := org.NewService(repo.NewDepartmentRepository(pool), employees, tx)

	if _, err := orgSvc.AddDepartment(ctx, "Logistics"); err != nil {
		t.Fatalf("AddDepartment error: %v", err)
	}

	if _, err := orgSvc.AddPosition(ctx, org.AddPositionInput{
		DepartmentName: "Logistics",
		Data:           org.PositionData{Name: "Forklift Operator", MedicalExamYears: 0.5, FireProtectionExamYears: 1},
	}); err != nil {
		t.Fatalf("AddPosition error: %v", err)
	}

	if _, err := employeeSvc.AddEmployee(ctx, employee.AddEmployeeInput{
		EmployeeID: "E9002",
		FirstName:  "Depot",
		LastName:   "Worker",
		Department: "Logistics",
	}); err != nil {
		t.Fatalf("AddEmployee error: %v", err)
	}

	if _, err := orgSvc.EditDepartment(ctx, "Logistics", "Supply Chain"); err != nil {
		t.Fatalf("EditDepartment error: %v", err)
	}

	list, err := employeeSvc.ListEmployees(ctx)
	if err != nil {
		t.Fatalf("ListEmployees error: %v", err)
	}
	for _, emp := range list {
		if emp.EmployeeID == "E9002" && emp.Department != "Supply Chain" {
			t.Fatalf("expected renamed department, got %s", emp.Department)
		}
	}

	departments, err := orgSvc.ListDepartments(ctx)
	if err != nil {
		t.Fatalf("ListDepartments error: %v", err)
	}
	for _, dep := range departments {
		if dep.Name != "Supply Chain" {
			continue
		}
		if len(dep.Positions) != 1 {
			t.Fatalf("expected 1 position, got %d", len(dep.Positions))
		}
		if got := dep.Positions[0].MedicalExamYears; got != 0.5 {
			t.Fatalf("expected fractional exam years to survive storage, got %v", got)
		}
	}
}

func resetMigrations(dsn, dir string) error {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func configPathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "assets/local.yaml"
}
