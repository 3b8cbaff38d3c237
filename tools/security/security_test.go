package security

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/chacha20poly1305"

	errs "talentlink/tools/errs"
)

func TestJwtRoundTrip(t *testing.T) {
	opts := DefaultOptions([]byte("unit-test-secret"))

	token, expireAt, err := Generate(opts, "user1")
	require.NoError(t, err)
	require.True(t, expireAt.After(time.Now()))

	userID, err := Decode(opts, token)
	require.NoError(t, err)
	require.Equal(t, "user1", userID)
}

func TestJwtExpired(t *testing.T) {
	opts := DefaultOptions([]byte("unit-test-secret"))
	opts.TTL = -time.Minute

	token, _, err := Generate(opts, "user1")
	require.NoError(t, err)

	_, err = Decode(opts, token)
	require.True(t, errs.ErrTokenExpired.Is(err))
}

func TestJwtWrongSecret(t *testing.T) {
	token, _, err := Generate(DefaultOptions([]byte("secret-a")), "user1")
	require.NoError(t, err)

	_, err = Decode(DefaultOptions([]byte("secret-b")), token)
	require.True(t, errs.ErrTokenInvalid.Is(err))
}

func TestCipherDecrypt(t *testing.T) {
	key := make([]byte, chacha20poly1305.KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	c, err := NewCipher(key)
	require.NoError(t, err)

	aead, err := chacha20poly1305.NewX(key)
	require.NoError(t, err)
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	sealed := aead.Seal(nil, nonce, []byte("hello preview"), nil)
	ciphertext := base64.StdEncoding.EncodeToString(append(nonce, sealed...))

	plain, err := c.Decrypt(ciphertext)
	require.NoError(t, err)
	require.Equal(t, "hello preview", plain)

	_, err = c.Decrypt("not base64!!!")
	require.True(t, errs.ErrArgs.Is(err))

	_, err = c.Decrypt(base64.StdEncoding.EncodeToString([]byte("short")))
	require.True(t, errs.ErrArgs.Is(err))
}

func TestCipherBadKey(t *testing.T) {
	_, err := NewCipher([]byte("too short"))
	require.Error(t, err)
}
