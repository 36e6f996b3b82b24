// Package guard produces the time-based codes the trading platform's mobile
// authenticator would: 30-second login codes, HMAC-signed confirmation codes
// and the device identifier confirmations are bound to.
//
// All functions are pure: given the same secret and timestamp they always
// return the same code. Callers must pass the current time at call time;
// confirmation codes are single-use per one-second window and must never be
// precomputed or reused across retries.
package guard

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
)

// codeChars is the login-code alphabet. Ambiguous glyphs (0/O, 1/I, ...)
// are excluded, matching the platform's authenticator.
const codeChars = "23456789BCDFGHJKMNPQRTVWXY"

// OneTimeCode returns the 5-character login code for the 30-second window
// containing now. The shared secret is the base64-encoded seed issued when
// the authenticator was added to the account.
func OneTimeCode(sharedSecret string, now int64) (string, error) {
	key, err := base64.StdEncoding.DecodeString(sharedSecret)
	if err != nil {
		return "", fmt.Errorf("decode shared secret: %w", err)
	}

	var interval [8]byte
	binary.BigEndian.PutUint64(interval[:], uint64(now/30))

	mac := hmac.New(sha1.New, key)
	mac.Write(interval[:])
	digest := mac.Sum(nil)

	begin := digest[19] & 0x0F
	full := binary.BigEndian.Uint32(digest[begin:begin+4]) & 0x7FFFFFFF

	code := make([]byte, 5)
	for i := range code {
		code[i] = codeChars[full%uint32(len(codeChars))]
		full /= uint32(len(codeChars))
	}
	return string(code), nil
}

// ConfirmationCode returns the base64 confirmation code authorizing a mobile
// confirmation action. The identity secret is the base64-encoded signing seed;
// tag is the short action literal the platform expects ("conf", "allow", ...).
func ConfirmationCode(identitySecret string, tag string, now int64) (string, error) {
	key, err := base64.StdEncoding.DecodeString(identitySecret)
	if err != nil {
		return "", fmt.Errorf("decode identity secret: %w", err)
	}

	buf := make([]byte, 8, 8+len(tag))
	binary.BigEndian.PutUint64(buf, uint64(now))
	buf = append(buf, tag...)

	mac := hmac.New(sha1.New, key)
	mac.Write(buf)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// DeviceID derives the stable device identifier for a 64-bit account id:
// the SHA-1 of its decimal form, grouped 8-4-4-4-12 and prefixed with the
// platform tag.
func DeviceID(steamID64 int64) string {
	sum := sha1.Sum([]byte(strconv.FormatInt(steamID64, 10)))
	h := hex.EncodeToString(sum[:])
	return fmt.Sprintf("android:%s-%s-%s-%s-%s",
		h[:8], h[8:12], h[12:16], h[16:20], h[20:32])
}

// SessionID generates a fresh session identifier: 16 random bytes, hex
// encoded, as the platform issues on web login.
func SessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// DoNotCache returns the anti-cache token login endpoints expect, derived
// from the current time in milliseconds.
func DoNotCache(now int64) int64 {
	return now*1000 - 18*60*60
}
