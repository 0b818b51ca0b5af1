package org

import "errors"

var (
	ErrCityNotFound     = errors.New("city not found")
	ErrBranchNotFound   = errors.New("branch not found")
	ErrBranchHasShifts  = errors.New("branch still has shifts scheduled")
	ErrCityHasBranches  = errors.New("city still has branches")
)
