// Package request builds the signable and transmittable forms of an
// authenticated inventory query.
package request

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultRecvWindow is the server-side staleness tolerance, in milliseconds.
const DefaultRecvWindow = 5000

// Params is an ordered set of query fields. Order is load-bearing: the
// canonical payload that gets signed and the transmitted query string must
// encode the fields identically, so iteration never re-sorts.
type Params struct {
	pairs []pair
}

type pair struct {
	key   string
	value string
}

// Set appends a field. Keys are not deduplicated; callers declare each once.
func (p *Params) Set(key, value string) {
	p.pairs = append(p.pairs, pair{key, value})
}

// Encode percent-encodes the fields in declaration order, joined with "&".
func (p *Params) Encode() string {
	var b strings.Builder
	for i, kv := range p.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.value))
	}
	return b.String()
}

// Signer is the signing capability Build needs; sign.Signer satisfies it.
type Signer interface {
	Sign(payload []byte) (string, error)
}

// Build assembles the signed parameter set for one margin-type query. The
// canonical payload is the encoding of type, timestamp and recvWindow plus any
// extras, in that order. The signature is computed over that payload and
// appended afterwards, so the signed bytes are exactly the transmitted query
// minus the signature field.
func Build(signer Signer, marginType string, now time.Time, recvWindow int, extras ...[2]string) (*Params, error) {
	p := &Params{}
	p.Set("type", marginType)
	p.Set("timestamp", strconv.FormatInt(now.UnixMilli(), 10))
	p.Set("recvWindow", strconv.Itoa(recvWindow))
	for _, kv := range extras {
		p.Set(kv[0], kv[1])
	}

	sig, err := signer.Sign([]byte(p.Encode()))
	if err != nil {
		return nil, fmt.Errorf("sign payload: %w", err)
	}
	p.Set("signature", sig)

	return p, nil
}
