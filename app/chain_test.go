package app

import (
	"context"
	"testing"

	"github.com/iov-one/tokenescrow"
	"github.com/iov-one/tokenescrow/errors"
	"github.com/iov-one/tokenescrow/tokenescrowtest"
	"github.com/iov-one/tokenescrow/x/utils"
	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	c1 := &countingDecorator{}
	c2 := &countingDecorator{}
	c3 := &countingDecorator{}
	h := &tokenescrowtest.Handler{}

	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		c2,
		panicAtHeightDecorator{height: 6},
		c3,
	).WithHandler(h)

	bg := context.Background()

	// make some calls, make sure it is fine
	_, err := stack.Check(bg, nil, nil)
	assert.NoError(t, err)
	ctx := tokenescrow.WithHeight(bg, 4)
	_, err = stack.Deliver(ctx, nil, nil)
	assert.NoError(t, err)

	// decorators are counted double, once in, once out
	assert.Equal(t, 4, c1.called)
	assert.Equal(t, 4, c2.called)
	assert.Equal(t, 4, c3.called)
	assert.Equal(t, 2, h.CallCount())

	// now, let's trigger a panic
	ctx = tokenescrow.WithHeight(bg, 8)
	_, err = stack.Check(ctx, nil, nil)
	assert.True(t, errors.ErrPanic.Is(err))
	_, err = stack.Deliver(ctx, nil, nil)
	assert.True(t, errors.ErrPanic.Is(err))

	assert.Equal(t, 8, c1.called)
	// note that c2 is called twice in, but not out
	assert.Equal(t, 6, c2.called)
	// and those two ins don't make it to c3 due to panic
	assert.Equal(t, 4, c3.called)
	assert.Equal(t, 2, h.CallCount())
}

func TestChainSkipsNilDecorators(t *testing.T) {
	var nilDecorator *countingDecorator
	d := &tokenescrowtest.Decorator{}
	h := &tokenescrowtest.Handler{}

	stack := ChainDecorators(nil, d, nilDecorator).Chain(nil).WithHandler(h)
	_, err := stack.Deliver(context.Background(), nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, d.CallCount())
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestChainStopsOnError(t *testing.T) {
	d := &tokenescrowtest.Decorator{DeliverErr: errors.ErrUnauthorized}
	h := &tokenescrowtest.Handler{}

	stack := ChainDecorators(d).WithHandler(h)
	_, err := stack.Deliver(context.Background(), nil, nil)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 0, h.CallCount())
}
