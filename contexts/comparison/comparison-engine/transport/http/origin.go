package http

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"
)

// OriginHash derives the stored origin identifier from a requester's network
// address. The raw address is never persisted; the digest is truncated to
// keep cardinality low enough for coarse duplicate detection only.
func OriginHash(remoteAddr string) string {
	host := strings.TrimSpace(remoteAddr)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	sum := sha256.Sum256([]byte(host))
	return hex.EncodeToString(sum[:])[:12]
}
