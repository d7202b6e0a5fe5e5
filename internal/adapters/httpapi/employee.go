package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/employee"
)

// EmployeeHandler は従業員リソースの HTTP ハンドラです。
type EmployeeHandler struct {
	svc employee.UseCase
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(svc employee.UseCase) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

type employeePayload struct {
	EmployeeID           string   `json:"employeeId"`
	FirstName            string   `json:"firstName"`
	LastName             string   `json:"lastName"`
	Gender               string   `json:"gender"`
	DateOfBirth          string   `json:"dateOfBirth"`
	SocialSecurityNumber string   `json:"socialSecurityNumber"`
	Residence            string   `json:"residence"`
	Municipality         string   `json:"municipality"`
	Profession           string   `json:"profession"`
	Email                string   `json:"email"`
	EmploymentDate       string   `json:"employmentDate"`
	TerminationDate      string   `json:"terminationDate"`
	Department           string   `json:"department"`
	Position             string   `json:"position"`
	Certifications       []string `json:"certifications"`
	Status               string   `json:"status"`
}

type employeeResponse struct {
	ID string `json:"id"`
	employeePayload
}

func toEmployeeResponse(e *employee.Employee) employeeResponse {
	return employeeResponse{
		ID: e.ID,
		employeePayload: employeePayload{
			EmployeeID:           e.EmployeeID,
			FirstName:            e.FirstName,
			LastName:             e.LastName,
			Gender:               string(e.Gender),
			DateOfBirth:          formatDate(e.DateOfBirth),
			SocialSecurityNumber: e.SocialSecurityNumber,
			Residence:            e.Residence,
			Municipality:         e.Municipality,
			Profession:           e.Profession,
			Email:                e.Email,
			EmploymentDate:       formatDate(e.EmploymentDate),
			TerminationDate:      formatDate(e.TerminationDate),
			Department:           e.Department,
			Position:             e.Position,
			Certifications:       e.Certifications,
			Status:               string(e.Status),
		},
	}
}

// List は従業員一覧を返します。
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.svc.ListEmployees(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		result = append(result, toEmployeeResponse(e))
	}
	writeData(w, http.StatusOK, result)
}

// Get は従業員を 1 件返します。
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.GetEmployee(r.Context(), employee.GetEmployeeInput{ID: mux.Vars(r)["id"]})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, toEmployeeResponse(found))
}

// Create は従業員を登録します。
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload employeePayload
	if !decodeBody(w, r, &payload) {
		return
	}

	dateOfBirth, err := parseDate(payload.DateOfBirth)
	if err != nil {
		writeError(w, http.StatusBadRequest, "dateOfBirth: "+err.Error())
		return
	}
	employmentDate, err := parseDate(payload.EmploymentDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "employmentDate: "+err.Error())
		return
	}

	in := employee.AddEmployeeInput{
		EmployeeID:           payload.EmployeeID,
		FirstName:            payload.FirstName,
		LastName:             payload.LastName,
		Gender:               employee.Gender(payload.Gender),
		DateOfBirth:          dateOfBirth,
		SocialSecurityNumber: payload.SocialSecurityNumber,
		Residence:            payload.Residence,
		Municipality:         payload.Municipality,
		Profession:           payload.Profession,
		Email:                payload.Email,
		EmploymentDate:       employmentDate,
		Department:           payload.Department,
		Position:             payload.Position,
		Certifications:       payload.Certifications,
	}
	if payload.Status != "" {
		status := employee.Status(payload.Status)
		in.Status = &status
	}

	created, err := h.svc.AddEmployee(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toEmployeeResponse(created))
}

// Update は従業員レコードを丸ごと置き換えます。
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload employeePayload
	if !decodeBody(w, r, &payload) {
		return
	}

	dateOfBirth, err := parseDate(payload.DateOfBirth)
	if err != nil {
		writeError(w, http.StatusBadRequest, "dateOfBirth: "+err.Error())
		return
	}
	employmentDate, err := parseDate(payload.EmploymentDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "employmentDate: "+err.Error())
		return
	}
	terminationDate, err := parseDate(payload.TerminationDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "terminationDate: "+err.Error())
		return
	}

	updated, err := h.svc.UpdateEmployee(r.Context(), employee.UpdateEmployeeInput{
		ID:                   mux.Vars(r)["id"],
		EmployeeID:           payload.EmployeeID,
		FirstName:            payload.FirstName,
		LastName:             payload.LastName,
		Gender:               employee.Gender(payload.Gender),
		DateOfBirth:          dateOfBirth,
		SocialSecurityNumber: payload.SocialSecurityNumber,
		Residence:            payload.Residence,
		Municipality:         payload.Municipality,
		Profession:           payload.Profession,
		Email:                payload.Email,
		EmploymentDate:       employmentDate,
		TerminationDate:      terminationDate,
		Department:           payload.Department,
		Position:             payload.Position,
		Certifications:       payload.Certifications,
		Status:               employee.Status(payload.Status),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, toEmployeeResponse(updated))
}
