// Package ccnsign provides the digest and public-key verification
// primitives a content object's Signature is checked against. The wire
// package stays pure byte-in/byte-out and never touches these; callers
// pass it the byte ranges ccnsign needs (the bytes a signature covers,
// the signature bytes themselves, and a candidate public key) and get
// back a verdict.
package ccnsign

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"hash"

	"golang.org/x/crypto/sha3"
)

// DigestAlgorithm selects the hash used for digests and for RSA/ECDSA
// verification. SHA-256 is this protocol's default; SHA3-256 is used
// only when a caller passes DigestSHA3_256 explicitly (nothing here
// reads a message's DigestAlgorithm leaf).
type DigestAlgorithm byte

const (
	DigestSHA256 DigestAlgorithm = iota
	DigestSHA3_256
)

var ErrUnknownDigestAlgorithm = errors.New("ccnsign: unknown digest algorithm")

// NewHash returns a fresh hash.Hash for the given algorithm.
func NewHash(alg DigestAlgorithm) (hash.Hash, error) {
	switch alg {
	case DigestSHA256:
		return sha256.New(), nil
	case DigestSHA3_256:
		return sha3.New256(), nil
	default:
		return nil, ErrUnknownDigestAlgorithm
	}
}

// Digest hashes covered with the given algorithm and returns the sum.
func Digest(alg DigestAlgorithm, covered []byte) ([]byte, error) {
	h, err := NewHash(alg)
	if err != nil {
		return nil, err
	}
	h.Write(covered)
	return h.Sum(nil), nil
}

var (
	ErrUnsupportedKeyType = errors.New("ccnsign: unsupported public key type")
	ErrBadSignature       = errors.New("ccnsign: signature does not verify")
)

// Verify checks sig against covered under the public key encoded in
// keyDER (PKIX, as carried in a KeyLocator's inline Key or fetched via
// a KeyName sub-Interest), using the given digest algorithm for
// RSA/ECDSA. Ed25519 signs the covered bytes directly and ignores alg.
func Verify(keyDER, covered, sig []byte, alg DigestAlgorithm) error {
	pub, err := x509.ParsePKIXPublicKey(keyDER)
	if err != nil {
		return err
	}

	switch key := pub.(type) {
	case ed25519.PublicKey:
		if !ed25519.Verify(key, covered, sig) {
			return ErrBadSignature
		}
		return nil
	case *rsa.PublicKey:
		digest, err := Digest(alg, covered)
		if err != nil {
			return err
		}
		cryptoHash, err := cryptoHashFor(alg)
		if err != nil {
			return err
		}
		if err := rsa.VerifyPKCS1v15(key, cryptoHash, digest, sig); err != nil {
			return ErrBadSignature
		}
		return nil
	case *ecdsa.PublicKey:
		digest, err := Digest(alg, covered)
		if err != nil {
			return err
		}
		if !ecdsa.VerifyASN1(key, digest, sig) {
			return ErrBadSignature
		}
		return nil
	default:
		return ErrUnsupportedKeyType
	}
}

func cryptoHashFor(alg DigestAlgorithm) (crypto.Hash, error) {
	switch alg {
	case DigestSHA256:
		return crypto.SHA256, nil
	case DigestSHA3_256:
		return crypto.SHA3_256, nil
	default:
		return 0, ErrUnknownDigestAlgorithm
	}
}

// VerifyDigestOnly checks a bare digest signature (this protocol's
// "DigestSha256"-equivalent self-signed content): sig must equal the
// digest of covered, with no public key involved.
func VerifyDigestOnly(covered, sig []byte, alg DigestAlgorithm) error {
	digest, err := Digest(alg, covered)
	if err != nil {
		return err
	}
	if !constantTimeEqual(digest, sig) {
		return ErrBadSignature
	}
	return nil
}

func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return v == 0
}
