package utils

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// AvatarHash is the gravatar key for an address.
func AvatarHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

// GravatarURL builds an identicon URL for hash.
func GravatarURL(hash string, size int, secure bool) string {
	base := "http://www.gravatar.com/avatar"
	if secure {
		base = "https://secure.gravatar.com/avatar"
	}
	return fmt.Sprintf("%s/%s?s=%d&d=identicon&r=g", base, hash, size)
}
