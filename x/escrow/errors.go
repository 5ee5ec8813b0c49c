package escrow

import "github.com/iov-one/tokenescrow/errors"

// Escrow extension errors use codes from 200 to 209.
var (
	// ErrAddressCollision is returned when opening an escrow for a seller
	// that already has one.
	ErrAddressCollision = errors.Register(200, "escrow address collision")

	// ErrAlreadyCompleted is returned when settling or cancelling an escrow
	// that is no longer open.
	ErrAlreadyCompleted = errors.Register(201, "escrow already completed")
)
