package common

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
)

func Of[T any](v T) *T {
	return &v
}

func IsURL(str string) bool {
	u, err := url.Parse(str)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// SHA256Sum fingerprints raw file content, used to report corpus
// download integrity.
func SHA256Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
