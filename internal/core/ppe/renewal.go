package ppe

import "time"

// RenewalState は払い出し済み保護具の更新ステータスです。
type RenewalState string

const (
	RenewalPremature RenewalState = "Premature"
	RenewalNone      RenewalState = "No Renewal"
	RenewalOverdue   RenewalState = "Overdue"
	RenewalDueSoon   RenewalState = "Due Soon"
	RenewalOK        RenewalState = "OK"
)

// dueSoonWindowDays は Due Soon と判定する残日数の上限です。
const dueSoonWindowDays = 30

// RenewalStatus は 1 件の払い出しに対する更新判定の結果です。
type RenewalStatus struct {
	State         RenewalState
	RenewalDate   *time.Time
	DaysOverdue   int
	DaysRemaining int
}

// ComputeRenewalStatus は払い出し記録と品目設定から更新ステータスを
// 導出する純粋関数です。IsPremature の記録は日付に関わらず Premature に
// なります。更新日は払い出し日に RenewalMonths ヶ月を加えた日付です。
func ComputeRenewalStatus(checkout *Checkout, equipment *Equipment, now time.Time) RenewalStatus {
	if checkout.IsPremature {
		return RenewalStatus{State: RenewalPremature}
	}

	if equipment.RenewalMonths == 0 {
		return RenewalStatus{State: RenewalNone}
	}

	renewalDate := truncateToDay(checkout.CheckoutDate).AddDate(0, equipment.RenewalMonths, 0)
	today := truncateToDay(now)
	daysUntil := int(renewalDate.Sub(today).Hours() / 24)

	switch {
	case daysUntil < 0:
		return RenewalStatus{State: RenewalOverdue, RenewalDate: &renewalDate, DaysOverdue: -daysUntil}
	case daysUntil <= dueSoonWindowDays:
		return RenewalStatus{State: RenewalDueSoon, RenewalDate: &renewalDate, DaysRemaining: daysUntil}
	default:
		return RenewalStatus{State: RenewalOK, RenewalDate: &renewalDate, DaysRemaining: daysUntil}
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
