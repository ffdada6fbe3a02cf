package models

// RoleCounts tracks the outcome of one threshold category during reconciliation
type RoleCounts struct {
	Added    int
	Existing int
}

// RoleUpdateLog aggregates the per-category outcome of a reconciliation run.
// It is created fresh per run and never persisted.
type RoleUpdateLog struct {
	Whitelist RoleCounts
	Moolalist RoleCounts
	FreeMint  RoleCounts
}

// BulkAssignResult summarizes a bulk flag-role rollout
type BulkAssignResult struct {
	Added     int
	Existing  int
	Errors    int
	Processed int
}

// PurgeResult summarizes a zero-balance role strip
type PurgeResult struct {
	UsersChecked int
	RolesRemoved int
	Errors       int
}
