package swap

import (
	"fmt"

	"github.com/iov-one/swap/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverOrError builds the DeliverTx response of a transaction, from err
// when it failed.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// CheckOrError builds the CheckTx response of a transaction, from err when
// it failed.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// DeliverResult is the outcome of a successfully delivered transaction.
// Escrow handlers tag it with the offer lifecycle, which the indexer
// reads back.
type DeliverResult struct {
	Data []byte
	Log  string
	Tags []common.KVPair
}

// AddTag appends a key value pair to the result tags.
func (d *DeliverResult) AddTag(key, value string) {
	d.Tags = append(d.Tags, common.KVPair{Key: []byte(key), Value: []byte(value)})
}

// Tag returns the value of the first tag with given key.
func (d DeliverResult) Tag(key string) (string, bool) {
	for _, t := range d.Tags {
		if string(t.Key) == key {
			return string(t.Value), true
		}
	}
	return "", false
}

func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data: d.Data,
		Log:  d.Log,
		Tags: d.Tags,
	}
}

// ParseDeliverOrError reads a DeliverTx response back, restoring the root
// error of a failed transaction.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*DeliverResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return &DeliverResult{
		Data: res.Data,
		Log:  res.Log,
		Tags: res.Tags,
	}, nil
}

// CheckResult is the outcome of a transaction that passed CheckTx.
type CheckResult struct {
	Data []byte
	Log  string
}

func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data: c.Data,
		Log:  c.Log,
	}
}

// DeliverTxError reports err with its registered code. See
// errors.ABCIInfo for what the log exposes.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errors.ABCIInfo(err, debug)
	if code != errors.SuccessABCICode {
		log = fmt.Sprintf("cannot deliver tx: %s", log)
	}
	return abci.ResponseDeliverTx{
		Code: code,
		Log:  log,
	}
}

// CheckTxError is DeliverTxError for CheckTx.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errors.ABCIInfo(err, debug)
	if code != errors.SuccessABCICode {
		log = fmt.Sprintf("cannot check tx: %s", log)
	}
	return abci.ResponseCheckTx{
		Code: code,
		Log:  log,
	}
}
