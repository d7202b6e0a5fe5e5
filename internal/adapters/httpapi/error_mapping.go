package httpapi

import (
	"errors"
	"net/http"

	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/employee"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/incident"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/org"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/ppe"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/remediation"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/training"
)

// toStatusCode はドメインエラーを HTTP ステータスへ対応付けます。未知の
// エラーは 500 とし、内部の詳細はクライアントへ漏らしません。
func toStatusCode(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidEmployeeID),
		errors.Is(err, employee.ErrInvalidFirstName),
		errors.Is(err, employee.ErrInvalidLastName),
		errors.Is(err, employee.ErrInvalidGender),
		errors.Is(err, employee.ErrInvalidStatus),
		errors.Is(err, employee.ErrInvalidDateRange),
		errors.Is(err, training.ErrInvalidID),
		errors.Is(err, training.ErrInvalidEmployeeID),
		errors.Is(err, training.ErrInvalidName),
		errors.Is(err, training.ErrInvalidStatus),
		errors.Is(err, training.ErrInvalidScore),
		errors.Is(err, incident.ErrInvalidEmployeeID),
		errors.Is(err, incident.ErrInvalidDescription),
		errors.Is(err, incident.ErrInvalidType),
		errors.Is(err, ppe.ErrInvalidID),
		errors.Is(err, ppe.ErrInvalidName),
		errors.Is(err, ppe.ErrInvalidRenewalMonths),
		errors.Is(err, ppe.ErrInvalidQuantity),
		errors.Is(err, org.ErrInvalidName),
		errors.Is(err, org.ErrInvalidExamYears),
		errors.Is(err, org.ErrInvalidRiskLevel):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, training.ErrModuleNotFound),
		errors.Is(err, training.ErrEmployeeNotFound),
		errors.Is(err, incident.ErrEmployeeNotFound),
		errors.Is(err, ppe.ErrEquipmentNotFound),
		errors.Is(err, ppe.ErrCheckoutNotFound),
		errors.Is(err, ppe.ErrEmployeeNotFound),
		errors.Is(err, org.ErrDepartmentNotFound),
		errors.Is(err, org.ErrPositionNotFound),
		errors.Is(err, org.ErrParentPositionNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, employee.ErrEmployeeIDAlreadyExists),
		errors.Is(err, ppe.ErrEquipmentNameAlreadyExists),
		errors.Is(err, ppe.ErrEquipmentInUse),
		errors.Is(err, ppe.ErrOutOfStock),
		errors.Is(err, org.ErrDepartmentAlreadyExists),
		errors.Is(err, org.ErrDepartmentInUse),
		errors.Is(err, org.ErrPositionNameAlreadyExists),
		errors.Is(err, org.ErrPositionHasEmployees),
		errors.Is(err, org.ErrPositionHasChildren):
		return http.StatusConflict, err.Error()
	case errors.Is(err, remediation.ErrSuggesterUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
