package objmgr

import (
	"net"
	"regexp"
	"strconv"
	"strings"
)

// domainRe matches the FQDN grammar: one or more labels of 1-63 chars
// from [A-Za-z0-9-], not starting or ending with '-', joined by '.',
// ending with a 2-13 char alphabetic TLD.
var domainRe = regexp.MustCompile(`^(?:[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?\.)+[A-Za-z]{2,13}$`)

// validateDottedQuad checks a well-formed IPv4 dotted-quad with no prefix.
func validateDottedQuad(value string) bool {
	if strings.Contains(value, "/") {
		return false
	}
	ip := net.ParseIP(value)
	return ip != nil && ip.To4() != nil
}

// validateCIDR checks "A.B.C.D/N" with N in [0,32] and A.B.C.D a
// well-formed dotted quad.
func validateCIDR(value string) bool {
	parts := strings.SplitN(value, "/", 2)
	if len(parts) != 2 {
		return false
	}
	if !validateDottedQuad(parts[0]) {
		return false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil || n < 0 || n > 32 {
		return false
	}
	return true
}

// validateDomainName checks the FQDN grammar used for "domain" and
// "searches" entries.
func validateDomainName(value string) bool {
	return domainRe.MatchString(value)
}

// asString type-asserts a vardict value, returning ok=false on any
// mismatch so callers can report "must be a string".
func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asStringSlice type-asserts a vardict value as an ordered sequence of
// strings. Accepts []string and []any (each element a string) since
// configuration arrives over the wire as decoded JSON.
func asStringSlice(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
