package models

// SyncStatus tracks whether the local copy of a record matches the remote
// server's last-known state.
type SyncStatus string

const (
	SyncSynced   SyncStatus = "synced"
	SyncPending  SyncStatus = "pending"
	SyncConflict SyncStatus = "conflict"
)
