package tokenescrowtest

import "github.com/iov-one/tokenescrow"

// Handler is a mock implementation of the tokenescrow.Handler interface.
// It returns the configured results and counts the calls.
type Handler struct {
	checkCall   int
	CheckResult tokenescrow.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult tokenescrow.DeliverResult
	DeliverErr    error
}

var _ tokenescrow.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx) (*tokenescrow.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// Decorator is a mock implementation of the tokenescrow.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
type Decorator struct {
	checkCall int
	CheckErr  error

	deliverCall int
	DeliverErr  error
}

var _ tokenescrow.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx, next tokenescrow.Checker) (*tokenescrow.CheckResult, error) {
	d.checkCall++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx, next tokenescrow.Deliverer) (*tokenescrow.DeliverResult, error) {
	d.deliverCall++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}
