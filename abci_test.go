package swap_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

func TestCreateErrorResult(t *testing.T) {
	cases := map[string]struct {
		err   error
		debug bool
		log   string
		code  uint32
	}{
		"stdlib error is redacted": {
			err:  fmt.Errorf("base"),
			log:  "internal error",
			code: 1,
		},
		"stdlib error in debug mode": {
			err:   fmt.Errorf("base"),
			debug: true,
			log:   "base",
			code:  1,
		},
		"registered error": {
			err:  errors.Wrap(errors.ErrNotFound, "offer"),
			log:  "offer: not found",
			code: 3,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			dres := swap.DeliverTxError(tc.err, tc.debug)
			assert.True(t, dres.IsErr())
			assert.True(t, strings.HasPrefix(dres.Log, "cannot deliver tx: "+tc.log), dres.Log)
			assert.Equal(t, tc.code, dres.Code)

			cres := swap.CheckTxError(tc.err, tc.debug)
			assert.True(t, cres.IsErr())
			assert.True(t, strings.HasPrefix(cres.Log, "cannot check tx: "+tc.log), cres.Log)
			assert.Equal(t, tc.code, cres.Code)
		})
	}
}

func TestCreateResults(t *testing.T) {
	d, msg := []byte{1, 3, 4}, "got it"
	dres := swap.DeliverResult{Data: d, Log: msg}
	dres.AddTag("action", "make_offer")
	ad := dres.ToABCI()
	assert.EqualValues(t, d, ad.Data)
	assert.Equal(t, msg, ad.Log)
	assert.Len(t, ad.Tags, 1)

	v, ok := dres.Tag("action")
	assert.True(t, ok)
	assert.Equal(t, "make_offer", v)
	_, ok = dres.Tag("maker")
	assert.False(t, ok)

	cres := swap.CheckResult{Log: "aok"}
	ac := cres.ToABCI()
	assert.Equal(t, "aok", ac.Log)
	assert.Empty(t, ac.Data)
}

func TestParseDeliverOrError(t *testing.T) {
	res := swap.DeliverOrError(nil, errors.Wrap(errors.ErrUnauthorized, "maker"), false)
	_, err := swap.ParseDeliverOrError(res)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	res = swap.DeliverOrError(&swap.DeliverResult{Data: []byte("ok")}, nil, false)
	got, err := swap.ParseDeliverOrError(res)
	assert.NoError(t, err)
	assert.Equal(t, []byte("ok"), got.Data)
}
