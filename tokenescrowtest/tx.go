package tokenescrowtest

import "github.com/iov-one/tokenescrow"

// Tx represents a single message transaction.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg tokenescrow.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ tokenescrow.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (tokenescrow.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg is a routable message with no content.
type Msg struct {
	// Path returned by the path method, consumed by the router.
	RoutePath string
	// Err if set is returned by Validate.
	Err error
}

var _ tokenescrow.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
