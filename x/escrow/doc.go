/*
Package escrow implements a two party token swap.

A maker deposits an amount of token A and declares the amount of token B
wanted in return. The deposit is held by a vault, the associated token
account of the offer address for mint A. The offer address is derived from
the offer id, so nobody holds a key for it and only this program can move
the deposit.

Any taker can complete the swap: the whole vault balance goes to the taker,
the wanted amount of token B goes from the taker to the maker, and both the
vault and the offer record are closed. The maker can instead refund the
offer and get the deposit back. Either way, storage deposits of the closed
accounts are returned to the maker.

Vault and offer record are always created and closed together.
*/
package escrow
