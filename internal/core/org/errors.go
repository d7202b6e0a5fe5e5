package org

import "errors"

var (
	ErrInvalidName               = errors.New("org: invalid name")
	ErrInvalidExamYears          = errors.New("org: invalid exam frequency")
	ErrInvalidRiskLevel          = errors.New("org: invalid risk level")
	ErrDepartmentNotFound        = errors.New("org: department not found")
	ErrDepartmentAlreadyExists   = errors.New("org: department already exists")
	ErrDepartmentInUse           = errors.New("org: department is assigned to employees")
	ErrPositionNotFound          = errors.New("org: position not found")
	ErrParentPositionNotFound    = errors.New("org: parent position not found")
	ErrPositionNameAlreadyExists = errors.New("org: position name already exists at this level")
	ErrPositionHasEmployees      = errors.New("org: position is assigned to employees")
	ErrPositionHasChildren       = errors.New("org: position has sub-positions")
)
