package technician

import "errors"

var (
	ErrNotFound   = errors.New("technician not found")
	ErrEmailTaken = errors.New("email already in use")
)
