package domain

// ChangeSet is the ephemeral result of one full-sync diff. It only drives the
// upsert/delete batch and the sync summary; it is never persisted.
type ChangeSet struct {
	Added    []string
	Removed  []string
	Modified []string
}

// SyncResult summarizes one full or incremental sync run. A run with Errors
// is still a success for the records that made it through.
type SyncResult struct {
	Synced   int      `json:"synced"`
	Added    int      `json:"added"`
	Removed  int      `json:"removed"`
	Modified int      `json:"modified"`
	Errors   []string `json:"errors,omitempty"`
}
