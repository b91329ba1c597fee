package listing

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

// Canonicalize strips query string and fragment from a URL and trims any
// trailing slash, producing the canonical form used as the identity of a
// listing. Malformed URLs are handled best-effort: everything from the first
// '?' or '#' is cut off.
func Canonicalize(raw string) string {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(raw)
	if err != nil {
		if i := strings.IndexAny(raw, "?#"); i >= 0 {
			raw = raw[:i]
		}
		return strings.TrimRight(raw, "/")
	}

	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return strings.TrimRight(u.String(), "/")
}

// Hash returns the hex MD5 digest of a canonical URL. It is the unique key
// under which the listing is upserted.
func Hash(canonical string) string {
	sum := md5.Sum([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
