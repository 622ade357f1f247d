package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("a local storage error occurred")
	ErrResourceNotFound = errors.New("there is no")
	ErrCategoryUnknown  = errors.New("the transaction references a category that is not cached")
)
