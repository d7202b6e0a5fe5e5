package employee

import "time"

// Status は従業員の在籍状態を表します。
type Status string

const (
	StatusActive     Status = "Active"
	StatusOnLeave    Status = "On Leave"
	StatusTerminated Status = "Terminated"
)

// Gender は従業員の性別を表します。
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Employee は従業員エンティティです。Department / Position は組織ツリー上の
// 名前による弱参照で、組織側の改名時に書き換えられます。
type Employee struct {
	ID                   string
	EmployeeID           string
	FirstName            string
	LastName             string
	Gender               Gender
	DateOfBirth          *time.Time
	SocialSecurityNumber string
	Residence            string
	Municipality         string
	Profession           string
	Email                string
	EmploymentDate       *time.Time
	TerminationDate      *time.Time
	Department           string
	Position             string
	Certifications       []string
	Status               Status
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// FullName は表示用の氏名を返します。
func (e *Employee) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
