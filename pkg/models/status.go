package models

// FetchStatus represents the recorded state of a fetch attempt in the ledger
type FetchStatus string

const (
	FetchStatusUnset    FetchStatus = ""          // Zero value = unset/unknown
	FetchStatusSuccess  FetchStatus = "success"   // Response read to completion
	FetchStatusFailure  FetchStatus = "failure"   // Resolution, connection or timeout failure
	FetchStatusNotFound FetchStatus = "not_found" // Link not in ledger
	FetchStatusDBError  FetchStatus = "db_error"  // Database error occurred
)

// String implements fmt.Stringer for logging
func (s FetchStatus) String() string {
	if s == "" {
		return "unset"
	}
	return string(s)
}

// IsValid returns true if the status is a value that can be stored
func (s FetchStatus) IsValid() bool {
	switch s {
	case FetchStatusSuccess, FetchStatusFailure:
		return true
	}
	return false
}
