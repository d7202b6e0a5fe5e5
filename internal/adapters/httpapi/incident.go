package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/incident"
)

// IncidentHandler は安全インシデントの HTTP ハンドラです。
type IncidentHandler struct {
	svc incident.UseCase
}

// NewIncidentHandler は IncidentHandler を生成します。
func NewIncidentHandler(svc incident.UseCase) *IncidentHandler {
	return &IncidentHandler{svc: svc}
}

type incidentResponse struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employeeId"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

func toIncidentResponse(in *incident.Incident) incidentResponse {
	return incidentResponse{
		ID:          in.ID,
		EmployeeID:  in.EmployeeID,
		Date:        in.Date.Format(dateLayout),
		Description: in.Description,
		Type:        string(in.Type),
	}
}

// ListForEmployee は従業員のインシデント履歴を返します。
func (h *IncidentHandler) ListForEmployee(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.svc.ListForEmployee(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result := make([]incidentResponse, 0, len(incidents))
	for _, in := range incidents {
		result = append(result, toIncidentResponse(in))
	}
	writeData(w, http.StatusOK, result)
}

// Create はインシデントを報告します。
func (h *IncidentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EmployeeID  string `json:"employeeId"`
		Date        string `json:"date"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}

	date, err := parseDate(payload.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date: "+err.Error())
		return
	}

	created, err := h.svc.ReportIncident(r.Context(), incident.ReportIncidentInput{
		EmployeeID:  payload.EmployeeID,
		Date:        date,
		Description: payload.Description,
		Type:        incident.Type(payload.Type),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toIncidentResponse(created))
}
