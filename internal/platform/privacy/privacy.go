// Package privacy reduces identifiers to forms that are safe to log or trace.
// Patient ids and client addresses never reach logs, spans or metrics labels in clear.
package privacy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
)

// PatientRef returns a short SHA-256 prefix of the patient id so log lines
// and traces can be correlated without carrying the identifier itself.
func PatientRef(patientID string) string {
	if patientID == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(patientID))
	return hex.EncodeToString(hash[:8])
}

// AnonymizeIP truncates an address to its network prefix: /24 for IPv4 and
// /48 for IPv6. A host:port value such as http.Request.RemoteAddr is accepted.
//
// Returns "invalid" for unparseable addresses, and "unknown" for empty strings.
func AnonymizeIP(addr string) string {
	if addr == "" || addr == "unknown" {
		return "unknown"
	}

	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}

	parsed := net.ParseIP(host)
	if parsed == nil {
		return "invalid"
	}

	if v4 := parsed.To4(); v4 != nil {
		return fmt.Sprintf("%d.%d.%d.0", v4[0], v4[1], v4[2])
	}

	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::",
		parsed[0], parsed[1],
		parsed[2], parsed[3],
		parsed[4], parsed[5])
}
