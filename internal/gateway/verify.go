package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// signatureMaxAge bounds how old a signed request may be before it is
// treated as a replay.
const signatureMaxAge = 5 * time.Minute

// VerifySignature checks the HMAC-SHA256 request signature computed over
// "v0:{timestamp}:{body}" against the provided "v0=..." header value, in
// constant time, and rejects timestamps older than signatureMaxAge.
func VerifySignature(secret, timestamp, signature string, body []byte, now time.Time) error {
	if timestamp == "" || signature == "" {
		return fmt.Errorf("missing signature headers")
	}
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid signature timestamp: %w", err)
	}
	if age := now.Sub(time.Unix(ts, 0)); age > signatureMaxAge {
		return fmt.Errorf("request too old (%s)", age.Round(time.Second))
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + timestamp + ":"))
	mac.Write(body)
	expected := "v0=" + hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}
