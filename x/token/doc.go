/*
Package token implements fungible assets.

A Mint describes an asset: its number of decimals, its supply and who may
issue more of it. Balances are held in token Accounts. Each account holds a
single asset and has an owner, the only one allowed to move funds out of it
or close it.

An owner can be either a key pair, authorizing with a signature, or a program
derived address, authorizing by presenting the seeds it was derived from.
See Signed and Derived.

Every owner has a canonical account per asset, living at the associated
address, see AssociatedAddress.
*/
package token
