package portal

import (
	"fmt"
	"strings"
)

// NormalizeMAC converts a hardware address in any common textual form
// (colon-, hyphen-, dot-separated or bare hex, any case) to the canonical
// lowercase colon-separated form. Normalizing an already-canonical address
// returns it unchanged.
func NormalizeMAC(raw string) (string, error) {
	mac := strings.ToLower(raw)
	mac = strings.ReplaceAll(mac, ":", "")
	mac = strings.ReplaceAll(mac, "-", "")
	mac = strings.ReplaceAll(mac, ".", "")
	mac = strings.ReplaceAll(mac, " ", "")
	mac = strings.TrimSpace(mac)

	if len(mac) != 12 || !isHex(mac) {
		return "", &MalformedAddressError{Address: raw}
	}

	return fmt.Sprintf("%s:%s:%s:%s:%s:%s",
		mac[0:2], mac[2:4], mac[4:6],
		mac[6:8], mac[8:10], mac[10:12]), nil
}

func isHex(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
