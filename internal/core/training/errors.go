package training

import "errors"

var (
	ErrInvalidID         = errors.New("training: invalid id")
	ErrInvalidEmployeeID = errors.New("training: invalid employee id")
	ErrInvalidName       = errors.New("training: invalid name")
	ErrInvalidStatus     = errors.New("training: invalid status")
	ErrInvalidScore      = errors.New("training: invalid score")
	ErrModuleNotFound    = errors.New("training: module not found")
	ErrEmployeeNotFound  = errors.New("training: employee not found")
)
