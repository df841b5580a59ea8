package storage

import (
	"io"

	"octane-crawler/pkg/models"
)

// LedgerWriter records the outcome of fetch attempts
type LedgerWriter interface {
	// RecordFetch stores the record for a link, replacing any earlier one
	RecordFetch(link models.Link, record *models.FetchRecord) error
}

// LedgerReader looks up recorded fetch attempts
type LedgerReader interface {
	// CheckFetchStatus retrieves the status and record for a link
	// Returns status (FetchStatusSuccess, FetchStatusFailure, FetchStatusNotFound, FetchStatusDBError),
	// the FetchRecord if found and parsed, and any error
	CheckFetchStatus(link models.Link) (status models.FetchStatus, record *models.FetchRecord, err error)

	// GetRecordCount returns the number of links with a record
	GetRecordCount() (int, error)
}

// LedgerAdmin handles lifecycle and administrative operations
type LedgerAdmin interface {
	// WriteLedgerLog writes one line per recorded link to w
	WriteLedgerLog(w io.Writer) error

	// Close cleanly closes the database connection
	Close() error
}

// FetchLedger combines all ledger interfaces for components that need full access
type FetchLedger interface {
	LedgerWriter
	LedgerReader
	LedgerAdmin
}
