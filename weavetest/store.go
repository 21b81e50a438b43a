package weavetest

import (
	"testing"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// This implementation should be used instead of MemStore when you want the
// exact same storage implementation as the production instance is using.
func CommitKVStore(t testing.TB) swap.CommitKVStore {
	t.Helper()
	return iavl.NewCommitStore(t.TempDir(), "db")
}
