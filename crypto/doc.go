/*
Package crypto holds the ed25519 keys used to sign transactions, and a SLIP-10
derivation of such keys from a master seed.
*/
package crypto
