package errors

import (
	"fmt"
)

var (
	ErrNotFound      = fmt.Errorf("not found")
	ErrInvalidInput  = fmt.Errorf("invalid input")
	ErrInvalidRecord = fmt.Errorf("invalid record")
	ErrDuplicate     = fmt.Errorf("duplicate")
)
