package training

import "time"

// Status はトレーニングの進捗状態を表します。外部から設定される値であり、
// 期日からの導出は行いません。
type Status string

const (
	StatusCompleted  Status = "Completed"
	StatusInProgress Status = "In Progress"
	StatusOverdue    Status = "Overdue"
	StatusNotStarted Status = "Not Started"
)

// Module は従業員一人に紐づくトレーニングモジュールです。
// CompletionDate と Score は Completed のときのみ設定されます。
type Module struct {
	ID             string
	EmployeeID     string
	Name           string
	DueDate        time.Time
	Status         Status
	CompletionDate *time.Time
	Score          *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DaysDelayed は期日からの経過日数を返します。期日前は 0 です。
func DaysDelayed(m *Module, now time.Time) int {
	due := time.Date(m.DueDate.Year(), m.DueDate.Month(), m.DueDate.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !today.After(due) {
		return 0
	}
	return int(today.Sub(due).Hours() / 24)
}
