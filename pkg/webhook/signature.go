package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	HeaderSignature = "X-Webhook-Signature"
	HeaderTimestamp = "X-Webhook-Timestamp"
	HeaderID        = "X-Webhook-ID"
)

// SignatureHeaders are the values attached to a signed request.
type SignatureHeaders struct {
	Signature string
	Timestamp int64
	ID        string
}

// Apply writes the signature headers to h.
func (s SignatureHeaders) Apply(h http.Header) {
	h.Set(HeaderSignature, s.Signature)
	h.Set(HeaderTimestamp, strconv.FormatInt(s.Timestamp, 10))
	h.Set(HeaderID, s.ID)
}

// SignPayload computes HMAC-SHA256(secret, "<timestamp>.<payload>").
func SignPayload(secret string, payload []byte) (SignatureHeaders, error) {
	if secret == "" {
		return SignatureHeaders{}, fmt.Errorf("%w: secret is required", ErrInvalidSignature)
	}
	ts := time.Now().Unix()
	return SignatureHeaders{
		Signature: sign(secret, ts, payload),
		Timestamp: ts,
		ID:        uuid.NewString(),
	}, nil
}

// VerifySignature checks a signature produced by SignPayload. A positive
// maxAge rejects signatures older than that.
func VerifySignature(secret string, payload []byte, headers SignatureHeaders, maxAge time.Duration) error {
	if secret == "" || headers.Signature == "" {
		return ErrInvalidSignature
	}
	if maxAge > 0 && time.Since(time.Unix(headers.Timestamp, 0)) > maxAge {
		return fmt.Errorf("%w: signature expired", ErrInvalidSignature)
	}
	expected := sign(secret, headers.Timestamp, payload)
	if !hmac.Equal([]byte(expected), []byte(headers.Signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// ParseSignatureHeaders reads signature headers from an incoming request.
func ParseSignatureHeaders(h http.Header) (SignatureHeaders, error) {
	ts, err := strconv.ParseInt(h.Get(HeaderTimestamp), 10, 64)
	if err != nil {
		return SignatureHeaders{}, fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
	}
	return SignatureHeaders{
		Signature: h.Get(HeaderSignature),
		Timestamp: ts,
		ID:        h.Get(HeaderID),
	}, nil
}

func sign(secret string, ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
