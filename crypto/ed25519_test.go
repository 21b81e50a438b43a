package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivKeyEd25519()
	public := private.PublicKey()

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig, err := private.Sign(msg)
	require.NoError(t, err)
	sig2, err := private.Sign(msg2)
	require.NoError(t, err)
	assert.NotEqual(t, sig, sig2)

	assert.True(t, public.Verify(msg, sig))
	assert.True(t, public.Verify(msg2, sig2))
	assert.False(t, public.Verify(msg, sig2), "wrong message")
	assert.False(t, public.Verify(msg2, sig), "wrong message")
	assert.False(t, public.Verify(msg, nil), "nil signature")
	assert.False(t, public.Verify(msg, make([]byte, 64)), "zero signature")

	other := GenPrivKeyEd25519().PublicKey()
	assert.False(t, other.Verify(msg, sig), "wrong key")
}

func TestEd25519Address(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	pub2 := GenPrivKeyEd25519().PublicKey()

	require.NoError(t, pub.Validate())
	assert.Error(t, PublicKey(nil).Validate())
	assert.NotEqual(t, pub.Address(), pub2.Address())
	assert.Equal(t, []byte(pub), pub.Address().Bytes())
	assert.True(t, pub.Equals(pub))
	assert.False(t, pub.Equals(pub2))
}

func TestPrivateKeyEncoding(t *testing.T) {
	key := GenPrivKeyEd25519()
	decoded, err := DecodePrivateKey(EncodePrivateKey(key))
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), decoded.PublicKey())

	_, err = DecodePrivateKey("zz")
	assert.Error(t, err)
	_, err = DecodePrivateKey("abcd")
	assert.Error(t, err)
}

func TestDeriveKey(t *testing.T) {
	// SLIP-10 ed25519 test vector 1.
	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")

	cases := map[string]struct {
		path    string
		wantKey string
		wantErr bool
	}{
		"hardened child": {
			path:    "m/0'",
			wantKey: "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3",
		},
		"non hardened path": {
			path:    "m/0",
			wantErr: true,
		},
		"garbage": {
			path:    "not a path",
			wantErr: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			key, err := DeriveKey(seed, tc.path)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantKey, hex.EncodeToString(key.Seed()))
		})
	}

	a, err := DeriveKey(seed, "")
	require.NoError(t, err)
	b, err := DeriveKey(seed, DefaultDerivationPath)
	require.NoError(t, err)
	assert.Equal(t, a.PublicKey(), b.PublicKey())
}
