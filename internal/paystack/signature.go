package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// SignatureHeader carries the webhook body signature.
const SignatureHeader = "X-Paystack-Signature"

// VerifySignature reports whether provided is the hex HMAC-SHA512 of the
// exact raw body keyed by the gateway secret. The comparison is constant
// time. An absent header verifies as false.
func VerifySignature(rawBody []byte, provided, secretKey string) bool {
	if provided == "" {
		return false
	}

	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(provided))
}
