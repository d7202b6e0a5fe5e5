package ppe

import "errors"

var (
	ErrInvalidID                  = errors.New("ppe: invalid id")
	ErrInvalidName                = errors.New("ppe: invalid equipment name")
	ErrInvalidRenewalMonths       = errors.New("ppe: invalid renewal months")
	ErrInvalidQuantity            = errors.New("ppe: invalid quantity")
	ErrEquipmentNotFound          = errors.New("ppe: equipment not found")
	ErrCheckoutNotFound           = errors.New("ppe: checkout not found")
	ErrEmployeeNotFound           = errors.New("ppe: employee not found")
	ErrEquipmentNameAlreadyExists = errors.New("ppe: equipment name already exists")
	ErrEquipmentInUse             = errors.New("ppe: equipment is referenced by checkouts")
	ErrOutOfStock                 = errors.New("ppe: out of stock")
)
