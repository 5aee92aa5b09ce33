package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	maxSlugLength = 64
	hashLength    = 16
)

// DeriveKey maps a query to the name its entry is stored under. The readable
// slug keeps only [A-Za-z0-9_-] so the key cannot leave the cache directory,
// the hash suffix keeps queries with equal slugs apart.
func DeriveKey(query string) (string, error) {
	if query == "" {
		return "", ErrInvalidQuery
	}

	sum := sha256.Sum256([]byte(query))
	return slugify(query) + "-" + hex.EncodeToString(sum[:])[:hashLength], nil
}

func slugify(query string) string {
	var b strings.Builder
	lastUnderscore := false

	for _, r := range query {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}

		if b.Len() >= maxSlugLength {
			break
		}
	}

	slug := strings.Trim(b.String(), "_")
	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
	}
	if slug == "" {
		return "q"
	}

	return slug
}
