package request

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// captureSigner records the payload it was asked to sign.
type captureSigner struct {
	payload string
	sig     string
	err     error
}

func (s *captureSigner) Sign(payload []byte) (string, error) {
	s.payload = string(payload)
	return s.sig, s.err
}

func TestParams_Encode_PreservesOrder(t *testing.T) {
	p := &Params{}
	p.Set("zebra", "1")
	p.Set("apple", "2")
	p.Set("mango", "3")

	got := p.Encode()
	want := "zebra=1&apple=2&mango=3"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestParams_Encode_Escaping(t *testing.T) {
	p := &Params{}
	p.Set("type", "MARGIN ISOLATED")
	p.Set("note", "a&b=c")

	got := p.Encode()
	want := "type=MARGIN+ISOLATED&note=a%26b%3Dc"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestBuild(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	signer := &captureSigner{sig: "deadbeef"}

	p, err := Build(signer, "MARGIN", now, DefaultRecvWindow)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	wantPayload := "type=MARGIN&timestamp=1700000000000&recvWindow=5000"
	if signer.payload != wantPayload {
		t.Errorf("signed payload = %q, want %q", signer.payload, wantPayload)
	}

	// The transmitted query is exactly the signed payload plus the signature.
	wantQuery := wantPayload + "&signature=deadbeef"
	if got := p.Encode(); got != wantQuery {
		t.Errorf("Encode() = %q, want %q", got, wantQuery)
	}
}

func TestBuild_SignatureNotSigned(t *testing.T) {
	signer := &captureSigner{sig: "sig-value"}

	p, err := Build(signer, "ISOLATED", time.UnixMilli(42), 5000)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if strings.Contains(signer.payload, "signature") {
		t.Errorf("signed payload must not include the signature field, got %q", signer.payload)
	}
	if !strings.HasSuffix(p.Encode(), "&signature=sig-value") {
		t.Errorf("signature must be the final transmitted field, got %q", p.Encode())
	}
}

func TestBuild_Extras(t *testing.T) {
	signer := &captureSigner{sig: "s"}

	_, err := Build(signer, "MARGIN", time.UnixMilli(1000), 5000, [2]string{"symbol", "BTCUSDT"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := "type=MARGIN&timestamp=1000&recvWindow=5000&symbol=BTCUSDT"
	if signer.payload != want {
		t.Errorf("signed payload = %q, want %q", signer.payload, want)
	}
}

func TestBuild_SignerError(t *testing.T) {
	signer := &captureSigner{err: errors.New("boom")}

	if _, err := Build(signer, "MARGIN", time.Now(), 5000); err == nil {
		t.Error("expected error when signer fails")
	}
}
