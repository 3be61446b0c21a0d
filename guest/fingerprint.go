package guest

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
)

// anonymousClientID is substituted when the client did not send an
// identifying header, so that Fingerprint stays total.
const anonymousClientID = "anonymous"

// Fingerprint derives the opaque session key standing in for anonymous
// requester identity. It is a pure function: identical inputs always produce
// the identical key, and it never fails.
//
// remoteAddr is the request's network address; the port is stripped so the
// same client does not mint a new identity per TCP connection. clientID is
// whatever identifying header the frontend sends along (empty if absent).
//
// Two guests behind the same NAT with byte-identical headers collapse onto
// one key and share a vote. That trade-off is accepted for the no-login
// guest experience; a stronger identity scheme would only need to replace
// this one function.
func Fingerprint(remoteAddr, clientID string) string {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	if clientID == "" {
		clientID = anonymousClientID
	}
	sum := sha256.Sum256([]byte(host + "|" + clientID))
	return "g:" + hex.EncodeToString(sum[:])
}
