package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// LogoKeyOpts holds the generation parameters that affect logo bytes.
type LogoKeyOpts struct {
	Revision   int
	Compressor string
}

// Keyer builds cache keys. Implementations decide the namespace layout;
// callers treat keys as opaque strings.
type Keyer interface {
	// LogoKey returns the key for the PNG of a name/symbol pair.
	LogoKey(name, symbol string, opts LogoKeyOpts) string

	// BannerKey returns the key for the banner URL of a token.
	BannerKey(tokenAddress string) string
}

// DefaultKeyer is the standard key layout.
//
//	logo:<sha256(revision, compressor, name, symbol)>
//	banner:<lowercased token address>
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LogoKey hashes the identifiers so arbitrary user text never appears in keys.
func (DefaultKeyer) LogoKey(name, symbol string, opts LogoKeyOpts) string {
	return "logo:" + digest(strconv.Itoa(opts.Revision), opts.Compressor, name, symbol)
}

// BannerKey matches the key layout used by the banner worker's KV namespace.
func (DefaultKeyer) BannerKey(tokenAddress string) string {
	return "banner:" + strings.ToLower(tokenAddress)
}

// digest hashes parts with NUL separators, which cannot occur in validated
// identifiers, so ("ab", "c") and ("a", "bc") never collide.
func digest(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data. The pipeline uses it for ETags and
// stored record checksums.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
