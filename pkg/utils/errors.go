package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// --- Sentinel Errors for Categorization ---
var (
	ErrResolution       = errors.New("host unresolvable")       // DNS lookup failed or returned no IPv4 address
	ErrConnection       = errors.New("connection failed")       // Socket create/option/connect failure
	ErrTimeout          = errors.New("fetch timed out")         // Dial or read deadline exceeded
	ErrRequestWrite     = errors.New("failed to send request")  // Wraps the write error
	ErrResponseRead     = errors.New("failed to read response") // Wraps the read error
	ErrExtraction       = errors.New("link extraction failed")
	ErrParsing          = errors.New("parsing error")    // Wraps specific parsing error (HTTP, HTML, link db record)
	ErrFilesystem       = errors.New("filesystem error") // Wraps os errors
	ErrDatabase         = errors.New("database error")   // Wraps badger errors
	ErrConfigValidation = errors.New("configuration validation error")
)

// WrapErrorf prefixes err with a formatted message; returns nil for a nil err
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// CategorizeError maps an error to a predefined category string for logging and ledger records.
func CategorizeError(err error) string {
	if err == nil {
		return "None"
	}

	// Check against sentinel errors first
	switch {
	case errors.Is(err, ErrResolution):
		return "Fetch_Resolution"
	case errors.Is(err, ErrTimeout):
		return "Fetch_Timeout"
	case errors.Is(err, ErrRequestWrite):
		return "Fetch_RequestWrite"
	case errors.Is(err, ErrResponseRead):
		return "Fetch_ResponseRead"
	case errors.Is(err, ErrConnection):
		if strings.Contains(strings.ToLower(err.Error()), "connection refused") {
			return "Fetch_ConnectionRefused"
		}
		return "Fetch_Connection"
	case errors.Is(err, ErrExtraction):
		return "Content_Extraction"
	case errors.Is(err, ErrParsing):
		errMsg := err.Error()
		if strings.Contains(errMsg, "HTTP") {
			return "Content_ParsingHTTP"
		}
		if strings.Contains(errMsg, "HTML") {
			return "Content_ParsingHTML"
		}
		if strings.Contains(errMsg, "record") {
			return "Content_ParsingRecord"
		}
		return "Content_ParsingOther"
	case errors.Is(err, ErrFilesystem):
		if errors.Is(err, os.ErrPermission) {
			return "Filesystem_Permission"
		}
		if errors.Is(err, os.ErrNotExist) {
			return "Filesystem_NotExist"
		}
		if errors.Is(err, os.ErrExist) {
			return "Filesystem_Exist"
		}
		return "Filesystem_Other"
	case errors.Is(err, ErrDatabase):
		return "Database_Other"
	case errors.Is(err, ErrConfigValidation):
		return "Config_Validation"
	}

	// --- Fallback checks for common underlying error types/strings ---

	if errors.Is(err, context.Canceled) {
		return "System_ContextCanceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "System_ContextDeadlineExceeded"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Network_Timeout"
	}
	lowerErrMsg := strings.ToLower(err.Error())
	if strings.Contains(lowerErrMsg, "timeout") {
		return "Network_TimeoutGeneric"
	}
	if strings.Contains(lowerErrMsg, "connection refused") {
		return "Network_ConnectionRefused"
	}
	if strings.Contains(lowerErrMsg, "no such host") {
		return "Network_DNSLookup"
	}
	if strings.Contains(lowerErrMsg, "reset by peer") {
		return "Network_ConnectionReset"
	}
	if strings.Contains(lowerErrMsg, "broken pipe") {
		return "Network_BrokenPipe"
	}

	return "Unknown"
}
