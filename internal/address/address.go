package address

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/badoux/checkmail"
)

// Valid reports whether addr has a valid email address format.
func Valid(addr string) bool {
	return checkmail.ValidateFormat(addr) == nil
}

// ValidDomain reports whether a local part can be attached to domain to
// form a valid address.
func ValidDomain(domain string) bool {
	return Valid("art.vandelay@" + domain)
}

// ValidAlias reports whether alias forms a valid address on domain.
func ValidAlias(alias, domain string) bool {
	if alias == "" || strings.Contains(alias, " ") {
		return false
	}
	return Valid(alias + "@" + domain)
}

// Hash returns the hex SHA-224 digest of s. It identifies correspondents
// in the recipient relations and seeds route IDs.
func Hash(s string) string {
	sum := sha256.Sum224([]byte(s))
	return hex.EncodeToString(sum[:])
}

// RouteID derives a stable route ID from the route's identifying fields.
func RouteID(alias, forward, createdAt string) string {
	return Hash(alias + "-" + forward + "-" + createdAt)
}

// FormatReply renders the hashed reply address for alias and hash.
func FormatReply(alias, hash, domain string) string {
	return alias + "+" + hash + "@" + domain
}

// ParseReply splits a reply address of the form <alias>+<hash>@<domain>.
// The alias and hash are lowercased; the domain comparison ignores case.
func ParseReply(addr, domain string) (alias, hash string, err error) {
	local, addrDomain, ok := strings.Cut(addr, "@")
	if !ok {
		return "", "", fmt.Errorf("invalid address %q", addr)
	}
	if !strings.EqualFold(addrDomain, domain) {
		return "", "", fmt.Errorf("invalid domain %q", addrDomain)
	}
	alias, hash, ok = strings.Cut(local, "+")
	if !ok || alias == "" || hash == "" {
		return "", "", fmt.Errorf(
			"invalid address %q: must be of the form '<alias>+<hash>@<domain>'", addr)
	}
	return strings.ToLower(alias), strings.ToLower(hash), nil
}
