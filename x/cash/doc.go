/*
Package cash keeps the native balance of every account.

Native balance pays for storage. Every account holding state (an offer
record, a token account, a mint) must carry a deposit that depends on its
size, see Rent. Whoever creates the account funds the deposit, and closing
the account drains it to a destination chosen by the closing program.

There is no logic in the coins, except that the balance of an account may
not go below zero or overflow. Thus, this implementation is referred to as
cash. Simple and safe.
*/
package cash
