package cash

import (
	"testing"

	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/store"
	"github.com/iov-one/tokenescrow/tokenescrowtest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestController(t *testing.T) {
	Convey("Given an empty store", t, func() {
		db := store.MemStore()
		control := NewController(NewBucket())
		alice := tokenescrowtest.NewCondition().Address()
		bob := tokenescrowtest.NewCondition().Address()

		Convey("missing wallets have no balance", func() {
			bal, err := control.Balance(db, alice)
			So(err, ShouldBeNil)
			So(bal, ShouldEqual, 0)
		})

		Convey("moving from an empty wallet is insufficient", func() {
			err := control.MoveCoins(db, alice, bob, 1)
			So(errors.ErrInsufficientAmount.Is(err), ShouldBeTrue)
		})

		Convey("invalid addresses are rejected", func() {
			So(errors.ErrInput.Is(control.IssueCoins(db, []byte("short"), 5)), ShouldBeTrue)
			_, err := control.Balance(db, nil)
			So(errors.ErrInput.Is(err), ShouldBeTrue)
		})

		Convey("after issuing coins", func() {
			So(control.IssueCoins(db, alice, 500), ShouldBeNil)

			bal, err := control.Balance(db, alice)
			So(err, ShouldBeNil)
			So(bal, ShouldEqual, 500)

			Convey("coins can be moved", func() {
				So(control.MoveCoins(db, alice, bob, 200), ShouldBeNil)

				a, err := control.Balance(db, alice)
				So(err, ShouldBeNil)
				So(a, ShouldEqual, 300)
				b, err := control.Balance(db, bob)
				So(err, ShouldBeNil)
				So(b, ShouldEqual, 200)
			})

			Convey("whole balance can be moved", func() {
				So(control.MoveCoins(db, alice, bob, 500), ShouldBeNil)
				a, err := control.Balance(db, alice)
				So(err, ShouldBeNil)
				So(a, ShouldEqual, 0)
			})

			Convey("moving more than the balance fails without changes", func() {
				err := control.MoveCoins(db, alice, bob, 501)
				So(errors.ErrInsufficientAmount.Is(err), ShouldBeTrue)

				a, err := control.Balance(db, alice)
				So(err, ShouldBeNil)
				So(a, ShouldEqual, 500)
				b, err := control.Balance(db, bob)
				So(err, ShouldBeNil)
				So(b, ShouldEqual, 0)
			})

			Convey("moving to self keeps the balance", func() {
				So(control.MoveCoins(db, alice, alice, 100), ShouldBeNil)
				a, err := control.Balance(db, alice)
				So(err, ShouldBeNil)
				So(a, ShouldEqual, 500)
			})

			Convey("zero amount is not moved", func() {
				err := control.MoveCoins(db, alice, bob, 0)
				So(errors.ErrAmount.Is(err), ShouldBeTrue)
			})

			Convey("overflow is rejected", func() {
				err := control.IssueCoins(db, alice, ^uint64(0))
				So(errors.ErrOverflow.Is(err), ShouldBeTrue)
				a, err := control.Balance(db, alice)
				So(err, ShouldBeNil)
				So(a, ShouldEqual, 500)
			})
		})
	})
}
