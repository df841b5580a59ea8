package models

import "time"

// Link is a normalized (host, path) pair identifying a fetchable resource
// Host carries no scheme or port and is lower-case; Path is never empty
type Link struct {
	Host string `yaml:"host" json:"host"`
	Path string `yaml:"path" json:"path"`
}

// String renders the link as host followed by path, for logging
func (l Link) String() string {
	return l.Host + l.Path
}

// FetchRecord stores the result of one fetch attempt in the fetch ledger
type FetchRecord struct {
	Status      FetchStatus `json:"status"`                 // "success" or "failure"
	ErrorType   string      `json:"error_type,omitempty"`   // Error category (on failure)
	StatusCode  int         `json:"status_code,omitempty"`  // HTTP status code parsed from the raw response
	Bytes       int         `json:"bytes"`                  // Size of the raw response
	ContentHash string      `json:"content_hash,omitempty"` // SHA-256 of the raw response
	Title       string      `json:"title,omitempty"`
	LinksFound  int         `json:"links_found"`
	RunID       string      `json:"run_id"`
	LastAttempt time.Time   `json:"last_attempt"`
}

// CrawlReport summarizes one invocation of the crawl driver
type CrawlReport struct {
	RunID string `yaml:"run_id"`
	Seed  Link   `yaml:"seed"`

	// Outcome of the seed fetch, plus what could be read from its response
	Outcome    string `yaml:"outcome"`
	StatusCode int    `yaml:"status_code,omitempty"`
	Title      string `yaml:"title,omitempty"`
	DumpPath   string `yaml:"dump_path,omitempty"`

	// Frontier lists discovered links in insertion order; Reloaded counts the records
	// parsed back from the link database
	Frontier   []Link `yaml:"frontier"`
	LinkDBPath string `yaml:"link_db_path"`
	Reloaded   int    `yaml:"reloaded"`

	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`
}
