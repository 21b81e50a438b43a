package weavetest

import (
	"testing"

	"github.com/iov-one/swap"
)

// ParseAddress takes an address in a human readable format and returns
// its binary representation. This function is a test helper that is using
// swap.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) swap.Address {
	t.Helper()

	addr, err := swap.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
