package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/org"
)

// OrgHandler は部門と職位ツリーの HTTP ハンドラです。
type OrgHandler struct {
	svc org.UseCase
}

// NewOrgHandler は OrgHandler を生成します。
func NewOrgHandler(svc org.UseCase) *OrgHandler {
	return &OrgHandler{svc: svc}
}

type riskAndMeasurePayload struct {
	ID      string `json:"id,omitempty"`
	Risk    string `json:"risk"`
	Measure string `json:"measure"`
}

type positionResponse struct {
	ID                      string                  `json:"id"`
	Name                    string                  `json:"name"`
	Description             string                  `json:"description,omitempty"`
	MedicalExamYears        float64                 `json:"medicalExamYears"`
	FireProtectionExamYears float64                 `json:"fireProtectionExamYears"`
	RiskLevel               string                  `json:"riskLevel"`
	SpecialConditions       string                  `json:"specialConditions,omitempty"`
	RisksAndMeasures        []riskAndMeasurePayload `json:"risksAndMeasures"`
	SubPositions            []positionResponse      `json:"subPositions,omitempty"`
}

type departmentResponse struct {
	Name      string             `json:"name"`
	Positions []positionResponse `json:"positions"`
}

func toPositionResponse(p *org.Position) positionResponse {
	risks := make([]riskAndMeasurePayload, 0, len(p.RisksAndMeasures))
	for _, rm := range p.RisksAndMeasures {
		risks = append(risks, riskAndMeasurePayload{ID: rm.ID, Risk: rm.Risk, Measure: rm.Measure})
	}

	subs := make([]positionResponse, 0, len(p.SubPositions))
	for _, sub := range p.SubPositions {
		subs = append(subs, toPositionResponse(sub))
	}

	return positionResponse{
		ID:                      p.ID,
		Name:                    p.Name,
		Description:             p.Description,
		MedicalExamYears:        p.MedicalExamYears,
		FireProtectionExamYears: p.FireProtectionExamYears,
		RiskLevel:               string(p.RiskLevel),
		SpecialConditions:       p.SpecialConditions,
		RisksAndMeasures:        risks,
		SubPositions:            subs,
	}
}

func toDepartmentResponse(d *org.Department) departmentResponse {
	positions := make([]positionResponse, 0, len(d.Positions))
	for _, p := range d.Positions {
		positions = append(positions, toPositionResponse(p))
	}
	return departmentResponse{Name: d.Name, Positions: positions}
}

func toRisksAndMeasures(payload []riskAndMeasurePayload) []org.RiskAndMeasure {
	if payload == nil {
		return nil
	}
	risks := make([]org.RiskAndMeasure, 0, len(payload))
	for _, rm := range payload {
		risks = append(risks, org.RiskAndMeasure{ID: rm.ID, Risk: rm.Risk, Measure: rm.Measure})
	}
	return risks
}

// ListDepartments は部門の一覧をツリーごと返します。
func (h *OrgHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.svc.ListDepartments(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result := make([]departmentResponse, 0, len(departments))
	for _, d := range departments {
		result = append(result, toDepartmentResponse(d))
	}
	writeData(w, http.StatusOK, result)
}

// CreateDepartment は部門を追加します。
func (h *OrgHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}

	created, err := h.svc.AddDepartment(r.Context(), payload.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toDepartmentResponse(created))
}

// UpdateDepartment は部門を改名します。
func (h *OrgHandler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}

	updated, err := h.svc.EditDepartment(r.Context(), mux.Vars(r)["name"], payload.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, toDepartmentResponse(updated))
}

// DeleteDepartment は部門を削除します。
func (h *OrgHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveDepartment(r.Context(), mux.Vars(r)["name"]); err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

type positionPayload struct {
	Name                    string                  `json:"name"`
	Description             string                  `json:"description"`
	MedicalExamYears        float64                 `json:"medicalExamYears"`
	FireProtectionExamYears float64                 `json:"fireProtectionExamYears"`
	RiskLevel               string                  `json:"riskLevel"`
	SpecialConditions       string                  `json:"specialConditions"`
	RisksAndMeasures        []riskAndMeasurePayload `json:"risksAndMeasures"`
}

// CreatePosition は職位をツリーへ追加します。parentId が空の場合は部門
// 直下に追加します。
func (h *OrgHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		positionPayload
		ParentID string `json:"parentId"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}

	saved, err := h.svc.AddPosition(r.Context(), org.AddPositionInput{
		DepartmentName: mux.Vars(r)["name"],
		ParentID:       payload.ParentID,
		Data: org.PositionData{
			Name:                    payload.Name,
			Description:             payload.Description,
			MedicalExamYears:        payload.MedicalExamYears,
			FireProtectionExamYears: payload.FireProtectionExamYears,
			RiskLevel:               org.RiskLevel(payload.RiskLevel),
			SpecialConditions:       payload.SpecialConditions,
			RisksAndMeasures:        toRisksAndMeasures(payload.RisksAndMeasures),
		},
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toDepartmentResponse(saved))
}

// UpdatePosition は職位へ部分更新をマージします。リクエストに現れない
// フィールドは変更されません。
func (h *OrgHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name                    *string                  `json:"name"`
		Description             *string                  `json:"description"`
		MedicalExamYears        *float64                 `json:"medicalExamYears"`
		FireProtectionExamYears *float64                 `json:"fireProtectionExamYears"`
		RiskLevel               *string                  `json:"riskLevel"`
		SpecialConditions       *string                  `json:"specialConditions"`
		RisksAndMeasures        *[]riskAndMeasurePayload `json:"risksAndMeasures"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}

	vars := mux.Vars(r)
	in := org.EditPositionInput{
		DepartmentName:          vars["name"],
		PositionID:              vars["id"],
		Name:                    payload.Name,
		Description:             payload.Description,
		MedicalExamYears:        payload.MedicalExamYears,
		FireProtectionExamYears: payload.FireProtectionExamYears,
		SpecialConditions:       payload.SpecialConditions,
	}
	if payload.RiskLevel != nil {
		level := org.RiskLevel(*payload.RiskLevel)
		in.RiskLevel = &level
	}
	if payload.RisksAndMeasures != nil {
		risks := toRisksAndMeasures(*payload.RisksAndMeasures)
		in.RisksAndMeasures = &risks
	}

	saved, err := h.svc.EditPosition(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, toDepartmentResponse(saved))
}

// DeletePosition は職位をツリーから取り除きます。
func (h *OrgHandler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	saved, err := h.svc.RemovePosition(r.Context(), vars["name"], vars["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, toDepartmentResponse(saved))
}

// FlattenPositions は部門のツリーを深さ情報付きで平坦化して返します。
func (h *OrgHandler) FlattenPositions(w http.ResponseWriter, r *http.Request) {
	flat, err := h.svc.FlattenPositions(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		writeDomainError(w, err)
		return
	}

	type flatResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Level int    `json:"level"`
	}
	result := make([]flatResponse, 0, len(flat))
	for _, p := range flat {
		result = append(result, flatResponse{ID: p.ID, Name: p.Name, Level: p.Level})
	}
	writeData(w, http.StatusOK, result)
}
