package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/ppe"
)

// PPEHandler は保護具在庫台帳の HTTP ハンドラです。
type PPEHandler struct {
	svc ppe.UseCase
}

// NewPPEHandler は PPEHandler を生成します。
func NewPPEHandler(svc ppe.UseCase) *PPEHandler {
	return &PPEHandler{svc: svc}
}

type equipmentResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	RenewalMonths int    `json:"renewalMonths"`
	Stock         int    `json:"stock"`
}

func toEquipmentResponse(eq *ppe.Equipment) equipmentResponse {
	return equipmentResponse{
		ID:            eq.ID,
		Name:          eq.Name,
		RenewalMonths: eq.RenewalMonths,
		Stock:         eq.Stock,
	}
}

type checkoutResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employeeId"`
	EquipmentID  string `json:"equipmentId"`
	CheckoutDate string `json:"checkoutDate"`
	IsPremature  bool   `json:"isPremature"`
	Size         string `json:"size,omitempty"`
	Notes        string `json:"notes,omitempty"`

	RenewalState  string `json:"renewalState,omitempty"`
	RenewalDate   string `json:"renewalDate,omitempty"`
	DaysOverdue   int    `json:"daysOverdue,omitempty"`
	DaysRemaining int    `json:"daysRemaining,omitempty"`
}

type deliveryResponse struct {
	ID           string `json:"id"`
	EquipmentID  string `json:"equipmentId"`
	Quantity     int    `json:"quantity"`
	DeliveryDate string `json:"deliveryDate"`
	Notes        string `json:"notes,omitempty"`
}

func toDeliveryResponse(d *ppe.InboundDelivery) deliveryResponse {
	return deliveryResponse{
		ID:           d.ID,
		EquipmentID:  d.EquipmentID,
		Quantity:     d.Quantity,
		DeliveryDate: d.DeliveryDate.Format(dateLayout),
		Notes:        d.Notes,
	}
}

// ListEquipment は品目の一覧を返します。
func (h *PPEHandler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	equipment, err := h.svc.ListEquipment(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result := make([]equipmentResponse, 0, len(equipment))
	for _, eq := range equipment {
		result = append(result, toEquipmentResponse(eq))
	}
	writeData(w, http.StatusOK, result)
}

// CreateEquipment は品目をカタログへ追加します。
func (h *PPEHandler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name          string `json:"name"`
		RenewalMonths int    `json:"renewalMonths"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}

	created, err := h.svc.AddEquipment(r.Context(), ppe.AddEquipmentInput{
		Name:          payload.Name,
		RenewalMonths: payload.RenewalMonths,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toEquipmentResponse(created))
}

// UpdateEquipment は品目の名前と更新期間を変更します。
func (h *PPEHandler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name          string `json:"name"`
		RenewalMonths int    `json:"renewalMonths"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}

	updated, err := h.svc.EditEquipment(r.Context(), ppe.EditEquipmentInput{
		ID:            mux.Vars(r)["id"],
		Name:          payload.Name,
		RenewalMonths: payload.RenewalMonths,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, toEquipmentResponse(updated))
}

// DeleteEquipment は品目をカタログから削除します。
func (h *PPEHandler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveEquipment(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

// ListCheckouts は払い出しの一覧を更新ステータス付きで返します。
func (h *PPEHandler) ListCheckouts(w http.ResponseWriter, r *http.Request) {
	checkouts, err := h.svc.ListCheckouts(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	equipment, err := h.svc.ListEquipment(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	byID := make(map[string]*ppe.Equipment, len(equipment))
	for _, eq := range equipment {
		byID[eq.ID] = eq
	}

	now := time.Now().UTC()
	result := make([]checkoutResponse, 0, len(checkouts))
	for _, c := range checkouts {
		resp := checkoutResponse{
			ID:           c.ID,
			EmployeeID:   c.EmployeeID,
			EquipmentID:  c.EquipmentID,
			CheckoutDate: c.CheckoutDate.Format(dateLayout),
			IsPremature:  c.IsPremature,
			Size:         c.Size,
			Notes:        c.Notes,
		}
		if eq, ok := byID[c.EquipmentID]; ok {
			status := ppe.ComputeRenewalStatus(c, eq, now)
			resp.RenewalState = string(status.State)
			resp.RenewalDate = formatDate(status.RenewalDate)
			resp.DaysOverdue = status.DaysOverdue
			resp.DaysRemaining = status.DaysRemaining
		}
		result = append(result, resp)
	}
	writeData(w, http.StatusOK, result)
}

// CreateCheckout は保護具を払い出します。
func (h *PPEHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EmployeeID  string `json:"employeeId"`
		EquipmentID string `json:"equipmentId"`
		Size        string `json:"size"`
		Notes       string `json:"notes"`
		IsPremature bool   `json:"isPremature"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}

	created, err := h.svc.Checkout(r.Context(), ppe.CheckoutInput{
		EmployeeID:  payload.EmployeeID,
		EquipmentID: payload.EquipmentID,
		Size:        payload.Size,
		Notes:       payload.Notes,
		IsPremature: payload.IsPremature,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, checkoutResponse{
		ID:           created.ID,
		EmployeeID:   created.EmployeeID,
		EquipmentID:  created.EquipmentID,
		CheckoutDate: created.CheckoutDate.Format(dateLayout),
		IsPremature:  created.IsPremature,
		Size:         created.Size,
		Notes:        created.Notes,
	})
}

// UpdateCheckout は払い出し記録を訂正します。在庫は変化しません。
func (h *PPEHandler) UpdateCheckout(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CheckoutDate string `json:"checkoutDate"`
		Size         string `json:"size"`
		Notes        string `json:"notes"`
		IsPremature  bool   `json:"isPremature"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}

	checkoutDate, err := parseDate(payload.CheckoutDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "checkoutDate: "+err.Error())
		return
	}

	updated, err := h.svc.UpdateCheckout(r.Context(), ppe.UpdateCheckoutInput{
		ID:           mux.Vars(r)["id"],
		CheckoutDate: checkoutDate,
		Size:         payload.Size,
		Notes:        payload.Notes,
		IsPremature:  payload.IsPremature,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, checkoutResponse{
		ID:           updated.ID,
		EmployeeID:   updated.EmployeeID,
		EquipmentID:  updated.EquipmentID,
		CheckoutDate: updated.CheckoutDate.Format(dateLayout),
		IsPremature:  updated.IsPremature,
		Size:         updated.Size,
		Notes:        updated.Notes,
	})
}

// ListDeliveries は入荷記録の一覧を返します。
func (h *PPEHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	deliveries, err := h.svc.ListDeliveries(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result := make([]deliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		result = append(result, toDeliveryResponse(d))
	}
	writeData(w, http.StatusOK, result)
}

// CreateDelivery は入荷を記録し在庫へ加算します。
func (h *PPEHandler) CreateDelivery(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		EquipmentID string `json:"equipmentId"`
		Quantity    int    `json:"quantity"`
		Notes       string `json:"notes"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}

	created, err := h.svc.RecordDelivery(r.Context(), ppe.RecordDeliveryInput{
		EquipmentID: payload.EquipmentID,
		Quantity:    payload.Quantity,
		Notes:       payload.Notes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toDeliveryResponse(created))
}

// StockLevels は品目 ID をキーとした在庫スナップショットを返します。
func (h *PPEHandler) StockLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.svc.StockLevels(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, levels)
}
