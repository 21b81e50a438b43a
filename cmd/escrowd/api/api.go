/*
Package api serves a read only JSON view of the ledger state over HTTP.

All reads go through the ABCI query interface of the application, so the
API sees exactly what a light client would at the last committed height.
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iov-one/swap"
	"github.com/iov-one/swap/app"
	"github.com/iov-one/swap/cmd/escrowd/indexer"
	"github.com/iov-one/swap/errors"
	"github.com/iov-one/swap/x/cash"
	"github.com/iov-one/swap/x/escrow"
	"github.com/iov-one/swap/x/token"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Querier is implemented by the ABCI application.
type Querier interface {
	Query(abci.RequestQuery) abci.ResponseQuery
}

// History returns the recorded lifecycle of an offer.
type History interface {
	History(ctx context.Context, offer string) ([]indexer.Event, error)
}

type server struct {
	q       Querier
	history History
}

// NewRouter returns the HTTP handler of the API. History may be nil when
// no indexer is configured.
func NewRouter(q Querier, history History) http.Handler {
	s := &server{q: q, history: history}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	r.Route("/offers", func(r chi.Router) {
		r.Get("/{address}", s.offer)
		r.Get("/{address}/history", s.offerHistory)
	})
	r.Get("/makers/{address}/offers", s.makerOffers)
	r.Get("/owners/{address}/accounts", s.ownerAccounts)
	r.Get("/accounts/{address}", s.tokenAccount)
	r.Get("/mints/{address}", s.mint)
	r.Get("/wallets/{address}", s.wallet)
	return r
}

type offerView struct {
	Address            swap.Address `json:"address"`
	ID                 uint64       `json:"id"`
	Maker              swap.Address `json:"maker"`
	TokenMintA         swap.Address `json:"token_mint_a"`
	TokenMintB         swap.Address `json:"token_mint_b"`
	TokenBAmountWanted uint64       `json:"token_b_amount_wanted"`
	Bump               uint8        `json:"bump"`
	Vault              swap.Address `json:"vault"`
	// Offered is the current vault balance, that goes to the taker.
	Offered uint64 `json:"offered"`
}

type accountView struct {
	Address swap.Address `json:"address"`
	Mint    swap.Address `json:"mint"`
	Owner   swap.Address `json:"owner"`
	Amount  uint64       `json:"amount"`
}

type mintView struct {
	Address       swap.Address  `json:"address"`
	Decimals      uint8         `json:"decimals"`
	Supply        uint64        `json:"supply"`
	MintAuthority *swap.Address `json:"mint_authority,omitempty"`
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": swap.Version(),
	})
}

func (s *server) offer(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressParam(w, r)
	if !ok {
		return
	}
	models, err := s.query("/offers", addr.Bytes())
	if err != nil {
		writeError(w, err)
		return
	}
	if len(models) == 0 {
		writeError(w, errors.Wrap(errors.ErrNotFound, "offer"))
		return
	}
	view, err := s.offerView(addr, models[0].Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *server) makerOffers(w http.ResponseWriter, r *http.Request) {
	maker, ok := addressParam(w, r)
	if !ok {
		return
	}
	models, err := s.query("/offers/maker", maker.Bytes())
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]*offerView, 0, len(models))
	for _, m := range models {
		addr, err := keyAddress(m.Key)
		if err != nil {
			writeError(w, err)
			return
		}
		view, err := s.offerView(addr, m.Value)
		if err != nil {
			writeError(w, err)
			return
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *server) offerHistory(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressParam(w, r)
	if !ok {
		return
	}
	if s.history == nil {
		writeError(w, errors.Wrap(errors.ErrNotFound, "offer history is not indexed"))
		return
	}
	events, err := s.history.History(r.Context(), addr.String())
	if err != nil {
		writeError(w, err)
		return
	}
	if len(events) == 0 {
		writeError(w, errors.Wrap(errors.ErrNotFound, "offer history"))
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *server) tokenAccount(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressParam(w, r)
	if !ok {
		return
	}
	acc, err := s.account(addr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accountView{
		Address: addr,
		Mint:    acc.Mint,
		Owner:   acc.Owner,
		Amount:  acc.Amount,
	})
}

func (s *server) ownerAccounts(w http.ResponseWriter, r *http.Request) {
	owner, ok := addressParam(w, r)
	if !ok {
		return
	}
	models, err := s.query("/tokens/accounts/owner", owner.Bytes())
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]accountView, 0, len(models))
	for _, m := range models {
		addr, err := keyAddress(m.Key)
		if err != nil {
			writeError(w, err)
			return
		}
		var acc token.Account
		if err := acc.Unmarshal(m.Value); err != nil {
			writeError(w, err)
			return
		}
		views = append(views, accountView{Address: addr, Mint: acc.Mint, Owner: acc.Owner, Amount: acc.Amount})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *server) mint(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressParam(w, r)
	if !ok {
		return
	}
	var m token.Mint
	if err := s.one("/tokens/mints", addr, &m); err != nil {
		writeError(w, errors.Wrap(err, "mint"))
		return
	}
	view := mintView{Address: addr, Decimals: m.Decimals, Supply: m.Supply}
	if !m.MintAuthority.IsZero() {
		view.MintAuthority = &m.MintAuthority
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *server) wallet(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressParam(w, r)
	if !ok {
		return
	}
	var wallet cash.Wallet
	if err := s.one("/wallets", addr, &wallet); err != nil {
		writeError(w, errors.Wrap(err, "wallet"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"address": addr,
		"balance": wallet.Balance,
	})
}

func (s *server) offerView(addr swap.Address, raw []byte) (*offerView, error) {
	var o escrow.Offer
	if err := o.Unmarshal(raw); err != nil {
		return nil, err
	}
	vault, err := escrow.VaultAddress(addr, o.TokenMintA)
	if err != nil {
		return nil, err
	}
	view := &offerView{
		Address:            addr,
		ID:                 o.ID,
		Maker:              o.Maker,
		TokenMintA:         o.TokenMintA,
		TokenMintB:         o.TokenMintB,
		TokenBAmountWanted: o.TokenBAmountWanted,
		Bump:               o.Bump,
		Vault:              vault,
	}
	acc, err := s.account(vault)
	switch {
	case err == nil:
		view.Offered = acc.Amount
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	return view, nil
}

func (s *server) account(addr swap.Address) (*token.Account, error) {
	var acc token.Account
	if err := s.one("/tokens/accounts", addr, &acc); err != nil {
		return nil, errors.Wrap(err, "token account")
	}
	return &acc, nil
}

func (s *server) one(path string, addr swap.Address, dest interface{ Unmarshal([]byte) error }) error {
	res := s.q.Query(abci.RequestQuery{Path: path, Data: addr.Bytes()})
	if res.Code != 0 {
		return queryErr(res)
	}
	return app.UnmarshalOneResult(res.Value, dest)
}

func (s *server) query(path string, data []byte) ([]swap.Model, error) {
	res := s.q.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != 0 {
		return nil, queryErr(res)
	}
	var keys, values app.ResultSet
	if err := keys.Unmarshal(res.Key); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := values.Unmarshal(res.Value); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	return app.JoinResults(&keys, &values)
}

func queryErr(res abci.ResponseQuery) error {
	if res.Code == errors.ErrNotFound.ABCICode() {
		return errors.Wrap(errors.ErrNotFound, res.Log)
	}
	return errors.Wrapf(errors.ErrState, "query failed with code %d: %s", res.Code, res.Log)
}

// keyAddress strips the bucket prefix of a stored key.
func keyAddress(key []byte) (swap.Address, error) {
	if len(key) < swap.AddressLength {
		return swap.Address{}, errors.Wrapf(errors.ErrModel, "key length %d", len(key))
	}
	return swap.NewAddress(key[len(key)-swap.AddressLength:])
}

func addressParam(w http.ResponseWriter, r *http.Request) (swap.Address, bool) {
	addr, err := swap.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeError(w, err)
		return addr, false
	}
	return addr, true
}

type errorView struct {
	Code    uint32 `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code, log := errors.ABCIInfo(err, false)
	status := http.StatusInternalServerError
	switch {
	case errors.ErrNotFound.Is(err):
		status = http.StatusNotFound
	case errors.ErrInput.Is(err), errors.ErrEmpty.Is(err):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorView{Code: code, Message: log})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
