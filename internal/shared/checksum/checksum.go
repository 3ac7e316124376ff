// Package checksum computes the md5 hex digests the catalog uses for asset
// identity and dedup. md5 is an identity fingerprint here, not a security
// boundary.
package checksum

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
)

// Sum returns the lowercase md5 hex digest of everything readable from r.
func Sum(r io.Reader) (string, error) {
	h := md5.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// File returns the digest of a file's contents.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return Sum(f)
}
