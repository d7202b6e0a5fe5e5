package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/employee"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/incident"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/org"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/ppe"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/training"
)

type stubEmployeeUseCase struct {
	addFn    func(ctx context.Context, in employee.AddEmployeeInput) (*employee.Employee, error)
	updateFn func(ctx context.Context, in employee.UpdateEmployeeInput) (*employee.Employee, error)
	getFn    func(ctx context.Context, in employee.GetEmployeeInput) (*employee.Employee, error)
	listFn   func(ctx context.Context) ([]*employee.Employee, error)
}

func (s *stubEmployeeUseCase) AddEmployee(ctx context.Context, in employee.AddEmployeeInput) (*employee.Employee, error) {
	return s.addFn(ctx, in)
}

func (s *stubEmployeeUseCase) UpdateEmployee(ctx context.Context, in employee.UpdateEmployeeInput) (*employee.Employee, error) {
	return s.updateFn(ctx, in)
}

func (s *stubEmployeeUseCase) GetEmployee(ctx context.Context, in employee.GetEmployeeInput) (*employee.Employee, error) {
	return s.getFn(ctx, in)
}

func (s *stubEmployeeUseCase) ListEmployees(ctx context.Context) ([]*employee.Employee, error) {
	return s.listFn(ctx)
}

type stubPPEUseCase struct {
	ppe.UseCase
	checkoutFn      func(ctx context.Context, in ppe.CheckoutInput) (*ppe.Checkout, error)
	listCheckoutsFn func(ctx context.Context) ([]*ppe.Checkout, error)
	listEquipmentFn func(ctx context.Context) ([]*ppe.Equipment, error)
}

func (s *stubPPEUseCase) Checkout(ctx context.Context, in ppe.CheckoutInput) (*ppe.Checkout, error) {
	return s.checkoutFn(ctx, in)
}

func (s *stubPPEUseCase) ListCheckouts(ctx context.Context) ([]*ppe.Checkout, error) {
	return s.listCheckoutsFn(ctx)
}

func (s *stubPPEUseCase) ListEquipment(ctx context.Context) ([]*ppe.Equipment, error) {
	return s.listEquipmentFn(ctx)
}

type stubOrgUseCase struct {
	org.UseCase
	removeDepartmentFn func(ctx context.Context, name string) error
}

func (s *stubOrgUseCase) RemoveDepartment(ctx context.Context, name string) error {
	return s.removeDepartmentFn(ctx, name)
}

type stubRemediationUseCase struct {
	suggestFn func(ctx context.Context, employeeID, trainingID string) (string, error)
}

func (s *stubRemediationUseCase) Suggest(ctx context.Context, employeeID, trainingID string) (string, error) {
	return s.suggestFn(ctx, employeeID, trainingID)
}

type stubTrainingUseCase struct {
	training.UseCase
}

type stubIncidentUseCase struct {
	incident.UseCase
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	return env
}

func TestEmployeeHandler_Create_Success(t *testing.T) {
	t.Parallel()

	employees := &stubEmployeeUseCase{
		addFn: func(_ context.Context, in employee.AddEmployeeInput) (*employee.Employee, error) {
			if in.EmployeeID != "E2001" {
				t.Fatalf("unexpected employee id: %s", in.EmployeeID)
			}
			if in.DateOfBirth == nil || in.DateOfBirth.Format(dateLayout) != "1991-03-15" {
				t.Fatalf("unexpected date of birth: %v", in.DateOfBirth)
			}
			return &employee.Employee{
				ID:         "emp-1",
				EmployeeID: "E2001",
				FirstName:  in.FirstName,
				LastName:   in.LastName,
				Status:     employee.StatusActive,
			}, nil
		},
	}

	router := NewRouter(Services{
		Employees:   employees,
		Trainings:   &stubTrainingUseCase{},
		Incidents:   &stubIncidentUseCase{},
		PPE:         &stubPPEUseCase{},
		Org:         &stubOrgUseCase{},
		Remediation: &stubRemediationUseCase{},
	})

	body := `{"employeeId":"E2001","firstName":"Anna","lastName":"Koval","dateOfBirth":"1991-03-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("expected success envelope, got %+v", env)
	}
}

func TestEmployeeHandler_Create_DuplicateMapsToConflict(t *testing.T) {
	t.Parallel()

	employees := &stubEmployeeUseCase{
		addFn: func(context.Context, employee.AddEmployeeInput) (*employee.Employee, error) {
			return nil, employee.ErrEmployeeIDAlreadyExists
		},
	}

	router := NewRouter(Services{
		Employees:   employees,
		Trainings:   &stubTrainingUseCase{},
		Incidents:   &stubIncidentUseCase{},
		PPE:         &stubPPEUseCase{},
		Org:         &stubOrgUseCase{},
		Remediation: &stubRemediationUseCase{},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(`{"employeeId":"E1001"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	if env.Success || env.Error == "" {
		t.Fatalf("expected error envelope, got %+v", env)
	}
}

func TestEmployeeHandler_Get_NotFound(t *testing.T) {
	t.Parallel()

	employees := &stubEmployeeUseCase{
		getFn: func(context.Context, employee.GetEmployeeInput) (*employee.Employee, error) {
			return nil, employee.ErrEmployeeNotFound
		},
	}

	router := NewRouter(Services{
		Employees:   employees,
		Trainings:   &stubTrainingUseCase{},
		Incidents:   &stubIncidentUseCase{},
		PPE:         &stubPPEUseCase{},
		Org:         &stubOrgUseCase{},
		Remediation: &stubRemediationUseCase{},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/employees/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPPEHandler_Checkout_OutOfStock(t *testing.T) {
	t.Parallel()

	ledger := &stubPPEUseCase{
		checkoutFn: func(context.Context, ppe.CheckoutInput) (*ppe.Checkout, error) {
			return nil, ppe.ErrOutOfStock
		},
	}

	router := NewRouter(Services{
		Employees:   &stubEmployeeUseCase{},
		Trainings:   &stubTrainingUseCase{},
		Incidents:   &stubIncidentUseCase{},
		PPE:         ledger,
		Org:         &stubOrgUseCase{},
		Remediation: &stubRemediationUseCase{},
	})

	body := `{"employeeId":"1","equipmentId":"eq-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/ppe/checkouts", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	if env.Success || !strings.Contains(env.Error, "out of stock") {
		t.Fatalf("expected out of stock error, got %+v", env)
	}
}

func TestPPEHandler_ListCheckouts_IncludesRenewalStatus(t *testing.T) {
	t.Parallel()

	checkoutDate := time.Now().UTC().AddDate(0, -13, 0)
	ledger := &stubPPEUseCase{
		listCheckoutsFn: func(context.Context) ([]*ppe.Checkout, error) {
			return []*ppe.Checkout{
				{ID: "c1", EmployeeID: "1", EquipmentID: "eq-1", CheckoutDate: checkoutDate},
			}, nil
		},
		listEquipmentFn: func(context.Context) ([]*ppe.Equipment, error) {
			return []*ppe.Equipment{
				{ID: "eq-1", Name: "Safety Boots", RenewalMonths: 12, Stock: 4},
			}, nil
		},
	}

	router := NewRouter(Services{
		Employees:   &stubEmployeeUseCase{},
		Trainings:   &stubTrainingUseCase{},
		Incidents:   &stubIncidentUseCase{},
		PPE:         ledger,
		Org:         &stubOrgUseCase{},
		Remediation: &stubRemediationUseCase{},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/ppe/checkouts", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var env struct {
		Success bool               `json:"success"`
		Data    []checkoutResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(env.Data) != 1 {
		t.Fatalf("expected 1 checkout, got %d", len(env.Data))
	}
	if env.Data[0].RenewalState != string(ppe.RenewalOverdue) {
		t.Fatalf("expected overdue renewal state, got %s", env.Data[0].RenewalState)
	}
}

func TestOrgHandler_DeleteDepartment_InUse(t *testing.T) {
	t.Parallel()

	organization := &stubOrgUseCase{
		removeDepartmentFn: func(context.Context, string) error {
			return org.ErrDepartmentInUse
		},
	}

	router := NewRouter(Services{
		Employees:   &stubEmployeeUseCase{},
		Trainings:   &stubTrainingUseCase{},
		Incidents:   &stubIncidentUseCase{},
		PPE:         &stubPPEUseCase{},
		Org:         organization,
		Remediation: &stubRemediationUseCase{},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/departments/Production", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestTrainingHandler_SuggestRemediation(t *testing.T) {
	t.Parallel()

	suggester := &stubRemediationUseCase{
		suggestFn: func(_ context.Context, employeeID, trainingID string) (string, error) {
			if employeeID != "1" || trainingID != "t1" {
				t.Fatalf("unexpected args: %s %s", employeeID, trainingID)
			}
			return "Schedule a refresher session.", nil
		},
	}

	router := NewRouter(Services{
		Employees:   &stubEmployeeUseCase{},
		Trainings:   &stubTrainingUseCase{},
		Incidents:   &stubIncidentUseCase{},
		PPE:         &stubPPEUseCase{},
		Org:         &stubOrgUseCase{},
		Remediation: suggester,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/trainings/t1/remediation", strings.NewReader(`{"employeeId":"1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if env.Data["suggestion"] != "Schedule a refresher session." {
		t.Fatalf("unexpected suggestion: %+v", env.Data)
	}
}
