package models

// OrganizationEntry is one row of the tenant directory: the durable
// organization identifier plus the display name used as the routable
// path segment. Entries are sourced from the directory backend and are
// never created or mutated locally.
type OrganizationEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
