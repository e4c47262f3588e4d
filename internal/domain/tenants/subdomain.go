package tenants

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrInvalidSubdomain  = errors.New("invalid subdomain")
	ErrReservedSubdomain = errors.New("subdomain is reserved")

	subdomainPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{1,61}[a-z0-9])$`)
	nonSlug          = regexp.MustCompile(`[^a-z0-9\-]+`)
	multiDash        = regexp.MustCompile(`-+`)

	reserved = map[string]bool{
		"www": true, "admin": true, "api": true, "app": true, "mail": true, "demo": true,
	}
)

// NormalizeSubdomain lower-cases and trims s without otherwise rewriting it.
func NormalizeSubdomain(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateSubdomain checks a normalized subdomain.
func ValidateSubdomain(s string) error {
	if !subdomainPattern.MatchString(s) {
		return fmt.Errorf("%w: use 3-63 lowercase letters, digits or hyphens", ErrInvalidSubdomain)
	}
	if reserved[s] {
		return fmt.Errorf("%w: %q", ErrReservedSubdomain, s)
	}
	return nil
}

// MakeSubdomain derives a subdomain candidate from a business name.
// Example: "Peak Fitness Co." -> "peak-fitness-co"
func MakeSubdomain(name string) string {
	base := strings.ToLower(strings.TrimSpace(name))
	base = strings.ReplaceAll(base, " ", "-")
	base = nonSlug.ReplaceAllString(base, "")
	base = multiDash.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if len(base) > 55 {
		base = strings.Trim(base[:55], "-")
	}
	if len(base) < 3 {
		base = "studio-" + base
		base = strings.Trim(base, "-")
	}
	return base
}

// PublicURL builds the tenant's site URL from its subdomain.
func PublicURL(subdomain string) string {
	return "https://" + subdomain + ".auvora.app"
}
