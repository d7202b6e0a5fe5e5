package employee

import "errors"

var (
	ErrInvalidID               = errors.New("employee: invalid id")
	ErrInvalidEmployeeID       = errors.New("employee: invalid employee id")
	ErrInvalidFirstName        = errors.New("employee: invalid first name")
	ErrInvalidLastName         = errors.New("employee: invalid last name")
	ErrInvalidGender           = errors.New("employee: invalid gender")
	ErrInvalidStatus           = errors.New("employee: invalid status")
	ErrInvalidDateRange        = errors.New("employee: invalid employment period")
	ErrEmployeeNotFound        = errors.New("employee: not found")
	ErrEmployeeIDAlreadyExists = errors.New("employee: employee id already exists")
)
