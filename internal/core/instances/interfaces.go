package instances

import "context"

// Service validates submitted URLs against the known-instance allowlist
type Service interface {
	// IsAllowedURL reports whether rawURL is an https URL whose host belongs
	// to a known Lemmy instance. Malformed URLs are simply not allowed; only
	// allowlist read failures surface as errors.
	IsAllowedURL(ctx context.Context, rawURL string) (bool, error)
}

// Repository persists the set of known Lemmy instance hosts
type Repository interface {
	// UpsertHosts inserts hosts that aren't already present and returns the
	// number of newly added rows
	UpsertHosts(ctx context.Context, hosts []string) (int, error)

	// HostExists reports whether host is in the allowlist
	HostExists(ctx context.Context, host string) (bool, error)
}
