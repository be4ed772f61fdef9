package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

// SignHMAC creates an HMAC-SHA256 signature for a message, base64 encoded
func SignHMAC(message, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// VerifyHMAC verifies a base64 HMAC signature against a message.
// Uses constant-time comparison to prevent timing attacks.
func VerifyHMAC(message, signature, secret string) bool {
	expectedMAC := SignHMAC(message, secret)

	return subtle.ConstantTimeCompare([]byte(signature), []byte(expectedMAC)) == 1
}

// SignHMACHex creates an HMAC-SHA256 signature for a message, hex encoded.
// Payment rails sign their callbacks with this encoding.
func SignHMACHex(message, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyHMACHex verifies a hex HMAC signature against a message using
// constant-time comparison
func VerifyHMACHex(message, signature, secret string) bool {
	expectedMAC := SignHMACHex(message, secret)

	return subtle.ConstantTimeCompare([]byte(signature), []byte(expectedMAC)) == 1
}
