/*
Package swap holds the interfaces shared by the packages of the token swap
ledger: stores, transactions, messages, handlers and decorators, together
with addresses and the few concrete types every package needs.

Block height, chain id, block time and the program a message was routed to
travel in a context.Context from the app through decorators to handlers.
Every value V of type T carried this way has a pair of functions:

  WithV(Context, T) Context
  GetV(Context) (val T, ok bool)

WithV may panic when the value is already set, so that a handler cannot
replace the chain id it runs under.

Accounts are addressed by 32 byte Address values. Some addresses are public
keys of ed25519 key pairs, others are program derived: they are computed from
a program address and a list of seeds and are guaranteed to have no private
key. Only the program owning the derivation can authorize movements of funds
held by such an address, by presenting the seeds.
*/
package swap
