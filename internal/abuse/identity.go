package abuse

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HashIP returns a hex HMAC-SHA256 of the remote address under the server
// secret. Only this hash is ever stored or used as a rate-limit key; raw
// addresses stay out of the database and logs.
func HashIP(ip string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(ip))
	return hex.EncodeToString(mac.Sum(nil))
}
