package ccn

import (
	"crypto/ed25519"
	"crypto/x509"
	"testing"

	"github.com/xuzhw/ccn-go/std/ccnsign"
	"github.com/xuzhw/ccn-go/std/wire"
)

func mustParseContentObject(t *testing.T, msg []byte) *wire.ParsedContentObject {
	t.Helper()
	pco, err := wire.ParseContentObject(msg, nil)
	if err != nil {
		t.Fatalf("ParseContentObject: %v", err)
	}
	return pco
}

// stripKeyLocator removes the KeyLocator child element from msg's
// SignedInfo entirely, leaving a structurally valid ContentObject with
// no KeyLocator. The resulting message's signature no longer covers
// consistent bytes, so it is only useful for tests that never reach
// signature verification (locateKey reports keyUnusable first).
func stripKeyLocator(t *testing.T, msg []byte) []byte {
	t.Helper()
	pco := mustParseContentObject(t, msg)
	if pco.BKeyLocator == pco.EKeyLocator {
		return msg
	}
	out := append([]byte(nil), msg[:pco.BKeyLocator]...)
	out = append(out, msg[pco.EKeyLocator:]...)
	return out
}

func buildName(t *testing.T, comps ...string) []byte {
	t.Helper()
	raw := make([][]byte, len(comps))
	for i, c := range comps {
		raw[i] = []byte(c)
	}
	name, err := wire.BuildName(raw, false)
	if err != nil {
		t.Fatalf("BuildName: %v", err)
	}
	return name
}

func buildInterestMsgFor(t *testing.T, name []byte) []byte {
	t.Helper()
	c := wire.NewCharbuf()
	c.AppendOpen(wire.TagInterest)
	c.Append(name)
	c.AppendCloser()
	return c.Bytes()
}

// signedContent is a freshly minted ContentObject plus the signer
// identity a test needs to make assertions or serve a key-fetch reply.
type signedContent struct {
	msg    []byte
	keyDER []byte
	digest []byte
}

type contentOpts struct {
	keyName          []byte // non-nil: KeyLocatorKindKeyName instead of inline Key
	corruptSignature bool
	publisherDigest  bool // emit a PublisherPublicKeyDigest in SignedInfo
}

// newSignedContent builds a ContentObject for name/content, signed
// with a freshly generated ed25519 key, and embeds a KeyLocator per
// opts (inline key by default, or a KeyName pointing elsewhere).
func newSignedContent(t *testing.T, name []byte, content []byte, opts contentOpts) *signedContent {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	keyDER, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		t.Fatalf("MarshalPKIXPublicKey: %v", err)
	}
	digest, err := ccnsign.Digest(ccnsign.DigestSHA256, keyDER)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}

	si := wire.NewCharbuf()
	si.AppendOpen(wire.TagSignedInfo)
	if err := si.AppendBlob(wire.TagContentType, []byte{byte(wire.ContentTypeData)}); err != nil {
		t.Fatalf("AppendBlob ContentType: %v", err)
	}
	if opts.publisherDigest {
		if err := si.AppendBlob(wire.TagPublisherPublicKeyDigest, digest); err != nil {
			t.Fatalf("AppendBlob PublisherPublicKeyDigest: %v", err)
		}
	}

	kl := wire.NewCharbuf()
	kl.AppendOpen(wire.TagKeyLocator)
	if opts.keyName != nil {
		kn := wire.NewCharbuf()
		kn.AppendOpen(wire.TagKeyName)
		kn.Append(opts.keyName)
		kn.AppendCloser()
		kl.Append(kn.Bytes())
	} else {
		if err := kl.AppendBlob(wire.TagKey, keyDER); err != nil {
			t.Fatalf("AppendBlob Key: %v", err)
		}
	}
	kl.AppendCloser()
	si.Append(kl.Bytes())
	si.AppendCloser()

	contentElem := wire.NewCharbuf()
	if err := contentElem.AppendBlob(wire.TagContent, content); err != nil {
		t.Fatalf("AppendBlob Content: %v", err)
	}

	body := append(append([]byte(nil), name...), si.Bytes()...)
	body = append(body, contentElem.Bytes()...)

	// SigCovered is msg[BName:EContent], i.e. body without the
	// Content element's trailing closer byte.
	sigData := body[:len(body)-1]
	sig := ed25519.Sign(priv, sigData)
	if opts.corruptSignature && len(sig) > 0 {
		sig[0] ^= 0xFF
	}

	sigElem := wire.NewCharbuf()
	sigElem.AppendOpen(wire.TagSignature)
	if err := sigElem.AppendBlob(wire.TagSignatureBits, sig); err != nil {
		t.Fatalf("AppendBlob SignatureBits: %v", err)
	}
	sigElem.AppendCloser()

	msg := wire.NewCharbuf()
	msg.AppendOpen(wire.TagContentObject)
	msg.Append(sigElem.Bytes())
	msg.Append(body)
	msg.AppendCloser()

	return &signedContent{msg: msg.Bytes(), keyDER: keyDER, digest: digest}
}

// newKeyContentObject wraps keyDER itself as a KEY-typed, self-signed
// ContentObject under keyName, the shape a key-fetch sub-Interest
// expects back.
func newKeyContentObject(t *testing.T, keyName []byte, keyDER []byte) []byte {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	si := wire.NewCharbuf()
	si.AppendOpen(wire.TagSignedInfo)
	if err := si.AppendBlob(wire.TagContentType, []byte{byte(wire.ContentTypeKey)}); err != nil {
		t.Fatalf("AppendBlob ContentType: %v", err)
	}
	si.AppendCloser()

	contentElem := wire.NewCharbuf()
	if err := contentElem.AppendBlob(wire.TagContent, keyDER); err != nil {
		t.Fatalf("AppendBlob Content: %v", err)
	}

	body := append(append([]byte(nil), keyName...), si.Bytes()...)
	body = append(body, contentElem.Bytes()...)
	sigData := body[:len(body)-1]
	sig := ed25519.Sign(priv, sigData)

	sigElem := wire.NewCharbuf()
	sigElem.AppendOpen(wire.TagSignature)
	if err := sigElem.AppendBlob(wire.TagSignatureBits, sig); err != nil {
		t.Fatalf("AppendBlob SignatureBits: %v", err)
	}
	sigElem.AppendCloser()

	msg := wire.NewCharbuf()
	msg.AppendOpen(wire.TagContentObject)
	msg.Append(sigElem.Bytes())
	msg.Append(body)
	msg.AppendCloser()
	return msg.Bytes()
}
