package x_test

import (
	"context"
	"testing"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/weavetest"
	"github.com/iov-one/swap/x"
	"github.com/stretchr/testify/assert"
)

func TestAuth(t *testing.T) {
	a := weavetest.NewAddress()
	b := weavetest.NewAddress()
	c := weavetest.NewAddress()

	ctx1 := &weavetest.CtxAuth{Key: "foo"}
	ctx2 := &weavetest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          swap.Context
		auth         x.Authenticator
		mainSigner   swap.Address
		wantInCtx    []swap.Address
		wantNotInCtx swap.Address
		wantAll      []swap.Address
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &weavetest.Auth{},
			wantNotInCtx: b,
		},
		"signer a": {
			ctx:          context.Background(),
			auth:         &weavetest.Auth{Signer: a},
			mainSigner:   a,
			wantInCtx:    []swap.Address{a},
			wantNotInCtx: b,
			wantAll:      []swap.Address{a},
		},
		"chained authenticators": {
			ctx: context.Background(),
			auth: x.ChainAuth(
				&weavetest.Auth{Signer: b},
				&weavetest.Auth{Signers: []swap.Address{a, b}}),
			mainSigner:   b,
			wantInCtx:    []swap.Address{a, b},
			wantNotInCtx: c,
			wantAll:      []swap.Address{b, a},
		},
		"ctxAuth checks what is set by same key": {
			ctx:          ctx1.SetSigners(context.Background(), a, b),
			auth:         ctx1,
			mainSigner:   a,
			wantInCtx:    []swap.Address{a, b},
			wantNotInCtx: c,
			wantAll:      []swap.Address{a, b},
		},
		"ctxAuth with different key sees nothing": {
			ctx:          ctx1.SetSigners(context.Background(), a, b),
			auth:         ctx2,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			main, ok := x.MainSigner(tc.ctx, tc.auth)
			assert.Equal(t, !tc.mainSigner.IsZero(), ok)
			assert.Equal(t, tc.mainSigner, main)

			for _, want := range tc.wantInCtx {
				assert.True(t, tc.auth.HasAddress(tc.ctx, want))
			}
			assert.False(t, tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx))

			all := tc.auth.GetSigners(tc.ctx)
			assert.Equal(t, tc.wantAll, all)
			assert.True(t, x.HasAllAddresses(tc.ctx, tc.auth, all))
			assert.True(t, x.HasNAddresses(tc.ctx, tc.auth, all, len(all)))

			more := append(all, tc.wantNotInCtx)
			assert.False(t, x.HasAllAddresses(tc.ctx, tc.auth, more))
			assert.False(t, x.HasNAddresses(tc.ctx, tc.auth, more, len(more)))
			assert.True(t, x.HasNAddresses(tc.ctx, tc.auth, more, 0))
		})
	}
}
