package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/employee"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/incident"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/org"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/ppe"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/remediation"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/training"
)

// Services はルーターが公開するユースケースの束です。
type Services struct {
	Employees   employee.UseCase
	Trainings   training.UseCase
	Incidents   incident.UseCase
	PPE         ppe.UseCase
	Org         org.UseCase
	Remediation remediation.UseCase
}

// NewRouter は /api 配下に全ルートを束ねたルーターを構築します。
func NewRouter(services Services) *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	employees := NewEmployeeHandler(services.Employees)
	api.HandleFunc("/employees", employees.List).Methods(http.MethodGet)
	api.HandleFunc("/employees", employees.Create).Methods(http.MethodPost)
	api.HandleFunc("/employees/{id}", employees.Get).Methods(http.MethodGet)
	api.HandleFunc("/employees/{id}", employees.Update).Methods(http.MethodPut)

	trainings := NewTrainingHandler(services.Trainings, services.Remediation)
	api.HandleFunc("/employees/{id}/trainings", trainings.ListForEmployee).Methods(http.MethodGet)
	api.HandleFunc("/trainings", trainings.Create).Methods(http.MethodPost)
	api.HandleFunc("/trainings/{id}/completion", trainings.RecordCompletion).Methods(http.MethodPost)
	api.HandleFunc("/trainings/{id}/remediation", trainings.SuggestRemediation).Methods(http.MethodPost)

	incidents := NewIncidentHandler(services.Incidents)
	api.HandleFunc("/employees/{id}/incidents", incidents.ListForEmployee).Methods(http.MethodGet)
	api.HandleFunc("/incidents", incidents.Create).Methods(http.MethodPost)

	equipment := NewPPEHandler(services.PPE)
	api.HandleFunc("/ppe/equipment", equipment.ListEquipment).Methods(http.MethodGet)
	api.HandleFunc("/ppe/equipment", equipment.CreateEquipment).Methods(http.MethodPost)
	api.HandleFunc("/ppe/equipment/{id}", equipment.UpdateEquipment).Methods(http.MethodPut)
	api.HandleFunc("/ppe/equipment/{id}", equipment.DeleteEquipment).Methods(http.MethodDelete)
	api.HandleFunc("/ppe/checkouts", equipment.ListCheckouts).Methods(http.MethodGet)
	api.HandleFunc("/ppe/checkouts", equipment.CreateCheckout).Methods(http.MethodPost)
	api.HandleFunc("/ppe/checkouts/{id}", equipment.UpdateCheckout).Methods(http.MethodPut)
	api.HandleFunc("/ppe/deliveries", equipment.ListDeliveries).Methods(http.MethodGet)
	api.HandleFunc("/ppe/deliveries", equipment.CreateDelivery).Methods(http.MethodPost)
	api.HandleFunc("/ppe/stock", equipment.StockLevels).Methods(http.MethodGet)

	organization := NewOrgHandler(services.Org)
	api.HandleFunc("/departments", organization.ListDepartments).Methods(http.MethodGet)
	api.HandleFunc("/departments", organization.CreateDepartment).Methods(http.MethodPost)
	api.HandleFunc("/departments/{name}", organization.UpdateDepartment).Methods(http.MethodPut)
	api.HandleFunc("/departments/{name}", organization.DeleteDepartment).Methods(http.MethodDelete)
	api.HandleFunc("/departments/{name}/positions", organization.CreatePosition).Methods(http.MethodPost)
	api.HandleFunc("/departments/{name}/positions/flat", organization.FlattenPositions).Methods(http.MethodGet)
	api.HandleFunc("/departments/{name}/positions/{id}", organization.UpdatePosition).Methods(http.MethodPut)
	api.HandleFunc("/departments/{name}/positions/{id}", organization.DeletePosition).Methods(http.MethodDelete)

	return router
}
