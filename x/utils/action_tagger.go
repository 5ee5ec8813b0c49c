package utils

import (
	"github.com/iov-one/tokenescrow"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionTagger will inspect the message being executed and
// add a tag `action = msg.Path()`. Clients can use it to search for or
// subscribe to, for example, all settled escrows.
type ActionTagger struct{}

var _ tokenescrow.Decorator = ActionTagger{}

// ActionKey is used by ActionTagger as the Key in the Tag it appends
const ActionKey = "action"

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx, next tokenescrow.Checker) (*tokenescrow.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends a tag on the result if there is a success.
func (ActionTagger) Deliver(ctx tokenescrow.Context, db tokenescrow.KVStore, tx tokenescrow.Tx, next tokenescrow.Deliverer) (*tokenescrow.DeliverResult, error) {
	// fail before dispatching if the message cannot be read
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}

	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(msg.Path()),
	})
	return res, nil
}
