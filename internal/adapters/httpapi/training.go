package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/remediation"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/training"
)

// TrainingHandler はトレーニングモジュールと是正案の HTTP ハンドラです。
type TrainingHandler struct {
	svc         training.UseCase
	remediation remediation.UseCase
}

// NewTrainingHandler は TrainingHandler を生成します。
func NewTrainingHandler(svc training.UseCase, remediationSvc remediation.UseCase) *TrainingHandler {
	return &TrainingHandler{svc: svc, remediation: remediationSvc}
}

type moduleResponse struct {
	ID             string `json:"id"`
	EmployeeID     string `json:"employeeId"`
	Name           string `json:"name"`
	DueDate        string `json:"dueDate"`
	Status         string `json:"status"`
	CompletionDate string `json:"completionDate,omitempty"`
	Score          *int   `json:"score,omitempty"`
	DaysDelayed    int    `json:"daysDelayed"`
}

func toModuleResponse(m *training.Module, now time.Time) moduleResponse {
	due := m.DueDate
	return moduleResponse{
		ID:             m.ID,
		EmployeeID:     m.EmployeeID,
		Name:           m.Name,
		DueDate:        due.Format(dateLayout),
		Status:         string(m.Status),
		CompletionDate: formatDate(m.CompletionDate),
		Score:          m.Score,
		DaysDelayed:    training.DaysDelayed(m, now),
	}
}

// ListForEmployee は従業員のモジュール一覧を返します。
func (h *TrainingHandler) ListForEmployee(w http.ResponseWriter, r *http.Request) {
	modules, err := h.svc.ListForEmployee(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}

	now := time.Now().UTC()
	result := make([]moduleResponse, 0, len(modules))
	for _, m := range modules {
		result = append(result, toModuleResponse(m, now))
	}
	writeData(w, http.StatusOK, result)
}

// Create はモジュールを割り当てます。
func (h *TrainingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EmployeeID string `json:"employeeId"`
		Name       string `json:"name"`
		DueDate    string `json:"dueDate"`
		Status     string `json:"status"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}

	dueDate, err := parseDate(payload.DueDate)
	if err != nil || dueDate == nil {
		writeError(w, http.StatusBadRequest, "dueDate: expected YYYY-MM-DD")
		return
	}

	in := training.AddModuleInput{
		EmployeeID: payload.EmployeeID,
		Name:       payload.Name,
		DueDate:    *dueDate,
	}
	if payload.Status != "" {
		status := training.Status(payload.Status)
		in.Status = &status
	}

	created, err := h.svc.AddModule(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toModuleResponse(created, time.Now().UTC()))
}

// RecordCompletion はモジュールを修了済みにします。
func (h *TrainingHandler) RecordCompletion(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CompletionDate string `json:"completionDate"`
		Score          int    `json:"score"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}

	completionDate, err := parseDate(payload.CompletionDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "completionDate: "+err.Error())
		return
	}
	completion := time.Now().UTC()
	if completionDate != nil {
		completion = *completionDate
	}

	updated, err := h.svc.RecordCompletion(r.Context(), training.RecordCompletionInput{
		ID:             mux.Vars(r)["id"],
		CompletionDate: completion,
		Score:          payload.Score,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, toModuleResponse(updated, time.Now().UTC()))
}

// SuggestRemediation は遅延モジュールに対する是正案を生成します。
func (h *TrainingHandler) SuggestRemediation(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EmployeeID string `json:"employeeId"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}

	suggestion, err := h.remediation.Suggest(r.Context(), payload.EmployeeID, mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"suggestion": suggestion})
}
