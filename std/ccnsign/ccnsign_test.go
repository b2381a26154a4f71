package ccnsign

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestSHA256AndSHA3(t *testing.T) {
	covered := []byte("hello world")

	d256, err := Digest(DigestSHA256, covered)
	require.NoError(t, err)
	assert.Len(t, d256, 32)

	d3, err := Digest(DigestSHA3_256, covered)
	require.NoError(t, err)
	assert.Len(t, d3, 32)

	assert.NotEqual(t, d256, d3)
}

func TestDigestUnknownAlgorithm(t *testing.T) {
	_, err := Digest(DigestAlgorithm(99), []byte("x"))
	assert.ErrorIs(t, err, ErrUnknownDigestAlgorithm)
}

func TestVerifyEd25519RoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	covered := []byte("name+signedinfo+content")
	sig := ed25519.Sign(priv, covered)

	keyDER, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)

	assert.NoError(t, Verify(keyDER, covered, sig, DigestSHA256))
}

func TestVerifyEd25519RejectsTamperedContent(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	covered := []byte("name+signedinfo+content")
	sig := ed25519.Sign(priv, covered)

	keyDER, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)

	assert.Error(t, Verify(keyDER, []byte("tampered"), sig, DigestSHA256))
}

func TestVerifyRSARoundTrip(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	covered := []byte("name+signedinfo+content")
	digest, err := Digest(DigestSHA256, covered)
	require.NoError(t, err)

	sig, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, digest)
	require.NoError(t, err)

	keyDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)

	assert.NoError(t, Verify(keyDER, covered, sig, DigestSHA256))
}

func TestVerifyUnsupportedKeyBytes(t *testing.T) {
	err := Verify([]byte("not a key"), []byte("x"), []byte("y"), DigestSHA256)
	assert.Error(t, err)
}

func TestVerifyDigestOnly(t *testing.T) {
	covered := []byte("self-signed content")
	digest, err := Digest(DigestSHA256, covered)
	require.NoError(t, err)

	assert.NoError(t, VerifyDigestOnly(covered, digest, DigestSHA256))
	assert.Error(t, VerifyDigestOnly(covered, []byte("wrong"), DigestSHA256))
}
