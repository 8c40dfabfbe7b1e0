package commands

import (
	"fmt"
	"net/netip"
	"strings"
)

// IsAdmin checks if origin matches an entry of the allow list. Entries are
// single addresses or CIDR prefixes. An empty list admits everyone.
func IsAdmin(origin netip.Addr, allow []string) bool {
	if len(allow) == 0 {
		return true
	}
	origin = origin.Unmap()
	for _, entry := range allow {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			if prefix, err := netip.ParsePrefix(entry); err == nil && prefix.Contains(origin) {
				return true
			}
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil && addr.Unmap() == origin {
			return true
		}
	}
	return false
}

// CanExecute returns an error if origin may not run operator commands.
func CanExecute(origin netip.Addr, allow []string) error {
	if !IsAdmin(origin, allow) {
		return fmt.Errorf("%s is not allowed to use the admin interface", origin)
	}
	return nil
}

// ValidateAllowList reports malformed allow-list entries.
func ValidateAllowList(allow []string) error {
	for _, entry := range allow {
		entry = strings.TrimSpace(entry)
		var err error
		if strings.Contains(entry, "/") {
			_, err = netip.ParsePrefix(entry)
		} else {
			_, err = netip.ParseAddr(entry)
		}
		if err != nil {
			return fmt.Errorf("admin allow entry %q: %w", entry, err)
		}
	}
	return nil
}
