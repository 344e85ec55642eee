package orders

import "errors"

var (
	ErrNotFound       = errors.New("order not found")
	ErrConflict       = errors.New("status transition conflict")
	ErrAlreadyExists  = errors.New("order already exists")
	ErrUnknownProduct = errors.New("unknown product")

	// ErrAdapter: collaborator eksternal (gateway/chat) gagal.
	ErrAdapter = errors.New("adapter error")
)
