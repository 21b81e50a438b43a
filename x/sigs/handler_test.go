package sigs

import (
	"context"
	"math"
	"testing"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/store"
	"github.com/iov-one/swap/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBumpSequence(t *testing.T) {
	var (
		key1 = weavetest.NewKey().PublicKey()
		key2 = weavetest.NewKey().PublicKey()
	)

	cases := map[string]struct {
		// Before performing the test, initialize the database with given user data.
		InitData       []*UserData
		Msg            BumpSequenceMsg
		Signers        []swap.Address
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
		// WantSequence sequence values should be tested for being one
		// smaller than expected. This is usual transaction processing
		// will additionally increment sequence. That is why handler
		// increments it by the requested value - 1.
		WantSequences []*UserData
	}{
		"great success": {
			InitData: []*UserData{
				{Pubkey: key1, Sequence: 1},
				{Pubkey: key2, Sequence: 9},
			},
			Signers: []swap.Address{key1.Address()},
			Msg:     BumpSequenceMsg{Increment: 2},
			WantSequences: []*UserData{
				{Pubkey: key1, Sequence: 2},
				{Pubkey: key2, Sequence: 9},
			},
		},
		"incrementing sequence of the main signer": {
			InitData: []*UserData{
				{Pubkey: key1, Sequence: 1},
				{Pubkey: key2, Sequence: 9},
			},
			Signers: []swap.Address{
				key2.Address(), // Main signer.
				key1.Address(),
			},
			Msg: BumpSequenceMsg{Increment: 2},
			WantSequences: []*UserData{
				{Pubkey: key1, Sequence: 1},
				{Pubkey: key2, Sequence: 10},
			},
		},
		"transaction with a missing signature is rejected": {
			Msg:            BumpSequenceMsg{Increment: 1},
			Signers:        nil,
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
		},
		"message with a zero sequence increment is invalid": {
			InitData: []*UserData{
				{Pubkey: key1, Sequence: 1},
			},
			Msg:            BumpSequenceMsg{Increment: 0},
			WantCheckErr:   errors.ErrMsg,
			WantDeliverErr: errors.ErrMsg,
		},
		"user that we increment the sequence of must exist": {
			InitData: []*UserData{
				{Pubkey: key2, Sequence: 4},
			},
			Signers:        []swap.Address{key1.Address()},
			Msg:            BumpSequenceMsg{Increment: 421},
			WantCheckErr:   errors.ErrNotFound,
			WantDeliverErr: errors.ErrNotFound,
		},
		"sequence increment value must not be greater than 1000": {
			InitData: []*UserData{
				{Pubkey: key1, Sequence: 4},
			},
			Signers:        []swap.Address{key1.Address()},
			Msg:            BumpSequenceMsg{Increment: 1001},
			WantCheckErr:   errors.ErrMsg,
			WantDeliverErr: errors.ErrMsg,
		},
		"sequence increment value can be 1000": {
			InitData: []*UserData{
				{Pubkey: key1, Sequence: 4},
			},
			Signers: []swap.Address{key1.Address()},
			Msg:     BumpSequenceMsg{Increment: 1000},
			WantSequences: []*UserData{
				{Pubkey: key1, Sequence: 1003},
			},
		},
		"successful sequence increment before counter overflow": {
			InitData: []*UserData{
				{Pubkey: key1, Sequence: math.MaxInt64 - 20},
			},
			Signers: []swap.Address{key1.Address()},
			Msg:     BumpSequenceMsg{Increment: 20},
			WantSequences: []*UserData{
				{Pubkey: key1, Sequence: math.MaxInt64 - 1},
			},
		},
		"sequence increment value overflow": {
			InitData: []*UserData{
				{Pubkey: key1, Sequence: math.MaxInt64 - 20},
			},
			Signers:        []swap.Address{key1.Address()},
			Msg:            BumpSequenceMsg{Increment: 21},
			WantCheckErr:   errors.ErrOverflow,
			WantDeliverErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			bucket := NewBucket()
			db := store.MemStore()

			for i, data := range tc.InitData {
				require.NoError(t, bucket.Save(db, data), "user %d", i)
			}

			auth := &weavetest.CtxAuth{Key: "auth"}
			handler := bumpSequenceHandler{
				b:    bucket,
				auth: auth,
			}
			ctx := auth.SetSigners(context.Background(), tc.Signers...)
			tx := weavetest.Tx{Msg: &tc.Msg}

			cache := db.CacheWrap()
			_, err := handler.Check(ctx, cache, &tx)
			require.True(t, tc.WantCheckErr.Is(err), "unexpected check error: %+v", err)
			cache.Discard()

			_, err = handler.Deliver(ctx, db, &tx)
			require.True(t, tc.WantDeliverErr.Is(err), "unexpected deliver error: %+v", err)
			if tc.WantDeliverErr != nil {
				return
			}

			for i, want := range tc.WantSequences {
				got, err := bucket.GetOrCreate(db, want.Pubkey)
				require.NoError(t, err, "user %d", i)
				assert.Equal(t, want.Sequence, got.Sequence, "user %d", i)
			}
		})
	}
}

func TestRegisterRoutes(t *testing.T) {
	r := &recordingRegistry{}
	RegisterRoutes(r, Authenticate{})
	assert.Equal(t, []string{"sigs/bump_sequence"}, r.paths)
}

type recordingRegistry struct {
	paths []string
}

func (r *recordingRegistry) Handle(m swap.Msg, h swap.Handler) {
	r.paths = append(r.paths, m.Path())
}
