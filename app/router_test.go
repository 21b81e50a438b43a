package app

import (
	"context"
	"testing"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	r := NewRouter()

	good := &weavetest.Handler{}
	bad := &weavetest.Handler{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrUnauthorized,
	}
	r.Handle(&weavetest.Msg{RoutePath: "test/good"}, good)
	r.Handle(&weavetest.Msg{RoutePath: "test/bad"}, bad)

	assert.Panics(t, func() {
		r.Handle(&weavetest.Msg{RoutePath: "test/good"}, good)
	}, "path registered twice")
	assert.Panics(t, func() {
		r.Handle(&weavetest.Msg{RoutePath: "l:7"}, good)
	}, "invalid path")
	assert.ElementsMatch(t, []string{"test/good", "test/bad"}, r.Paths())

	ctx := context.Background()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/good"}}

	_, err := r.Check(ctx, nil, tx)
	require.NoError(t, err)
	_, err = r.Deliver(ctx, nil, tx)
	require.NoError(t, err)
	assert.Equal(t, 1, good.CheckCallCount())
	assert.Equal(t, 1, good.DeliverCallCount())

	_, err = r.Deliver(ctx, nil, &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/bad"}})
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 1, bad.DeliverCallCount())

	missing := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/missing"}}
	_, err = r.Check(ctx, nil, missing)
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Deliver(ctx, nil, missing)
	assert.True(t, errors.ErrNotFound.Is(err))

	_, err = r.Deliver(ctx, nil, &weavetest.Tx{})
	assert.True(t, errors.ErrMsg.Is(err))

	_, err = r.Deliver(ctx, nil, &weavetest.Tx{Err: errors.ErrInput})
	assert.True(t, errors.ErrInput.Is(err))
}

// programRecorder remembers the program found in the context.
type programRecorder struct {
	weavetest.Handler
	program swap.Address
	ok      bool
}

func (p *programRecorder) Deliver(ctx swap.Context, db swap.KVStore, tx swap.Tx) (*swap.DeliverResult, error) {
	p.program, p.ok = swap.GetProgram(ctx)
	return p.Handler.Deliver(ctx, db, tx)
}

func TestWithProgram(t *testing.T) {
	program := weavetest.SequenceAddress(9)

	r := NewRouter()
	inside := &programRecorder{}
	outside := &programRecorder{}
	WithProgram(program, r).Handle(&weavetest.Msg{RoutePath: "prog/inside"}, inside)
	r.Handle(&weavetest.Msg{RoutePath: "prog/outside"}, outside)

	ctx := context.Background()
	_, err := r.Deliver(ctx, nil, &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "prog/inside"}})
	require.NoError(t, err)
	_, err = r.Deliver(ctx, nil, &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "prog/outside"}})
	require.NoError(t, err)

	assert.True(t, inside.ok)
	assert.Equal(t, program, inside.program)
	assert.False(t, outside.ok)
}
