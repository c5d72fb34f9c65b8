package utils

import (
	"errors"
	"regexp"
)

var (
	// Login names are strictly alphanumeric, matching the routing whitelist.
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]{1,32}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	moduleRe   = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)
	hostnameRe = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,62}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,62}[a-zA-Z0-9])?)*$`)
)

func ValidateUsername(s string) error {
	if !usernameRe.MatchString(s) {
		return errors.New("invalid username")
	}
	return nil
}

func ValidateEmail(s string) error {
	if len(s) > 254 || !emailRe.MatchString(s) {
		return errors.New("invalid email")
	}
	return nil
}

func ValidateHostname(s string) error {
	if len(s) > 253 || !hostnameRe.MatchString(s) {
		return errors.New("invalid hostname")
	}
	return nil
}

// ValidateModuleName guards dispatch segments; anything else is a routing miss.
func ValidateModuleName(s string) error {
	if !moduleRe.MatchString(s) {
		return errors.New("invalid module name")
	}
	return nil
}
