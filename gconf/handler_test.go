package gconf

import (
	"context"
	"testing"

	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/store"
	"github.com/iov-one/tokenescrow/tokenescrowtest"
	"github.com/iov-one/tokenescrow/tokenescrowtest/assert"
)

func TestUpdateConfigurationHandler(t *testing.T) {
	cond := tokenescrowtest.NewCondition()
	admin := tokenescrowtest.NewCondition()

	cases := map[string]struct {
		// If Init is provided, initialize the database before running
		// handler code. Use nil to not provide initial state.
		Init *myconfig
		// InitAdmin is given to the handler as the creation admin.
		InitAdmin tokenescrow.Address

		Msg            tokenescrow.Msg
		MsgConditions  []tokenescrow.Condition
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error

		// When not nil database state will be tested to contain the
		// exact version of the configuration.
		WantConfig *myconfig
	}{
		"success": {
			Init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg: &myconfigMsg{
				Patch: &myconfig{Owner: cond.Address(), Num: 333, Str: "boing!"},
			},
			MsgConditions: []tokenescrow.Condition{cond},
			WantConfig:    &myconfig{Owner: cond.Address(), Num: 333, Str: "boing!"},
		},
		"message must be signed by the configuration owner": {
			Init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg: &myconfigMsg{
				Patch: &myconfig{Num: 1},
			},
			MsgConditions:  []tokenescrow.Condition{tokenescrowtest.NewCondition()},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantConfig:     &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
		},
		"zero values are not updating the configuration": {
			Init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg: &myconfigMsg{
				Patch: &myconfig{Num: 0, Str: "new"},
			},
			MsgConditions: []tokenescrow.Condition{cond},
			WantConfig:    &myconfig{Owner: cond.Address(), Num: 5125, Str: "new"},
		},
		"invalid configuration is not accepted": {
			Init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg: &myconfigMsg{
				Patch: &myconfig{Num: -3},
			},
			MsgConditions:  []tokenescrow.Condition{cond},
			WantCheckErr:   errors.ErrInput,
			WantDeliverErr: errors.ErrInput,
		},
		"missing patch": {
			Init:           &myconfig{Owner: cond.Address()},
			Msg:            &myconfigMsg{},
			MsgConditions:  []tokenescrow.Condition{cond},
			WantCheckErr:   errors.ErrState,
			WantDeliverErr: errors.ErrState,
		},
		"configuration without an admin cannot be created": {
			Msg: &myconfigMsg{
				Patch: &myconfig{Owner: cond.Address(), Num: 1},
			},
			MsgConditions:  []tokenescrow.Condition{cond},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
		},
		"configuration can be created by the admin": {
			InitAdmin: admin.Address(),
			Msg: &myconfigMsg{
				Patch: &myconfig{Owner: cond.Address(), Num: 1},
			},
			MsgConditions: []tokenescrow.Condition{admin},
			WantConfig:    &myconfig{Owner: cond.Address(), Num: 1},
		},
		"configuration can be created only by the admin": {
			InitAdmin: admin.Address(),
			Msg: &myconfigMsg{
				Patch: &myconfig{Owner: cond.Address(), Num: 1},
			},
			MsgConditions:  []tokenescrow.Condition{cond},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()

			if tc.Init != nil {
				if err := Save(db, "mypkg", tc.Init); err != nil {
					t.Fatalf("cannot save initial configuration: %s", err)
				}
			}

			var initAdmin func(tokenescrow.ReadOnlyKVStore) (tokenescrow.Address, error)
			if tc.InitAdmin != nil {
				initAdmin = func(tokenescrow.ReadOnlyKVStore) (tokenescrow.Address, error) {
					return tc.InitAdmin, nil
				}
			}

			var c myconfig
			auth := &tokenescrowtest.CtxAuth{Key: "auth"}
			handler := NewUpdateConfigurationHandler("mypkg", &c, auth, initAdmin)

			ctx := tokenescrow.WithHeight(context.Background(), 999)
			ctx = tokenescrow.WithChainID(ctx, "mychain-123")
			ctx = auth.SetConditions(ctx, tc.MsgConditions...)

			tx := &tokenescrowtest.Tx{Msg: tc.Msg}

			cache := db.CacheWrap()
			if _, err := handler.Check(ctx, cache, tx); !tc.WantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			if _, err := handler.Deliver(ctx, db, tx); !tc.WantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}

			if tc.WantConfig != nil {
				var got myconfig
				if err := Load(db, "mypkg", &got); err != nil {
					t.Fatalf("cannot load configuration from the database: %s", err)
				}
				assert.Equal(t, tc.WantConfig, &got)
			}
		})
	}
}

type myconfigMsg struct {
	Patch *myconfig
}

var _ tokenescrow.Msg = (*myconfigMsg)(nil)

func (msg *myconfigMsg) Path() string    { return "myconfig" }
func (msg *myconfigMsg) Validate() error { return nil }
