package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
)

// --- CategorizeError Tests ---

func TestCategorizeError_NilError(t *testing.T) {
	result := CategorizeError(nil)
	if result != "None" {
		t.Errorf("CategorizeError(nil) = %q, want %q", result, "None")
	}
}

func TestCategorizeError_SentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Resolution", ErrResolution, "Fetch_Resolution"},
		{"Connection", ErrConnection, "Fetch_Connection"},
		{"Timeout", ErrTimeout, "Fetch_Timeout"},
		{"RequestWrite", ErrRequestWrite, "Fetch_RequestWrite"},
		{"ResponseRead", ErrResponseRead, "Fetch_ResponseRead"},
		{"Extraction", ErrExtraction, "Content_Extraction"},
		{"ConfigValidation", ErrConfigValidation, "Config_Validation"},
		{"Database", ErrDatabase, "Database_Other"},
		{"Filesystem", ErrFilesystem, "Filesystem_Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CategorizeError(tt.err)
			if result != tt.expected {
				t.Errorf("CategorizeError(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestCategorizeError_WrappedErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "WrappedResolution",
			err:      fmt.Errorf("%w: lookup theinfo.org: no such host", ErrResolution),
			expected: "Fetch_Resolution",
		},
		{
			name:     "ConnectionRefused",
			err:      fmt.Errorf("%w: dial tcp4 10.0.0.1:80: connect: connection refused", ErrConnection),
			expected: "Fetch_ConnectionRefused",
		},
		{
			name:     "DoubleWrapped",
			err:      fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", ErrTimeout)),
			expected: "Fetch_Timeout",
		},
		{
			name:     "FilesystemNotExist",
			err:      fmt.Errorf("%w: %w", ErrFilesystem, os.ErrNotExist),
			expected: "Filesystem_NotExist",
		},
		{
			name:     "FilesystemPermission",
			err:      fmt.Errorf("%w: %w", ErrFilesystem, os.ErrPermission),
			expected: "Filesystem_Permission",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CategorizeError(tt.err)
			if result != tt.expected {
				t.Errorf("CategorizeError(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestCategorizeError_ParsingErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "HTTPParsing",
			err:      fmt.Errorf("HTTP status line malformed: %w", ErrParsing),
			expected: "Content_ParsingHTTP",
		},
		{
			name:     "HTMLParsing",
			err:      fmt.Errorf("HTML parsing failed: %w", ErrParsing),
			expected: "Content_ParsingHTML",
		},
		{
			name:     "RecordParsing",
			err:      fmt.Errorf("%w: link record has 2 fields", ErrParsing),
			expected: "Content_ParsingRecord",
		},
		{
			name:     "GenericParsing",
			err:      fmt.Errorf("parsing failed: %w", ErrParsing),
			expected: "Content_ParsingOther",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CategorizeError(tt.err)
			if result != tt.expected {
				t.Errorf("CategorizeError(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestCategorizeError_ContextErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"ContextCanceled", context.Canceled, "System_ContextCanceled"},
		{"ContextDeadlineExceeded", context.DeadlineExceeded, "System_ContextDeadlineExceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CategorizeError(tt.err)
			if result != tt.expected {
				t.Errorf("CategorizeError(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestCategorizeError_NetworkStrings(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Timeout", errors.New("connection timeout occurred"), "Network_TimeoutGeneric"},
		{"ConnectionRefused", errors.New("connection refused"), "Network_ConnectionRefused"},
		{"DNSLookup", errors.New("no such host"), "Network_DNSLookup"},
		{"ConnectionReset", errors.New("reset by peer"), "Network_ConnectionReset"},
		{"BrokenPipe", errors.New("broken pipe"), "Network_BrokenPipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CategorizeError(tt.err)
			if result != tt.expected {
				t.Errorf("CategorizeError(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestCategorizeError_Unknown(t *testing.T) {
	err := errors.New("some completely unknown error")
	result := CategorizeError(err)
	if result != "Unknown" {
		t.Errorf("CategorizeError(%v) = %q, want %q", err, result, "Unknown")
	}
}

// --- SanitizeFilename Tests ---

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Simple", "hello", "hello"},
		{"WithSpaces", "hello world", "hello world"},
		{"WithSlash", "path/to/file", "path_to_file"},
		{"WithBackslash", "path\\to\\file", "path_to_file"},
		{"WithColon", "file:name", "file_name"},
		{"WithQuotes", `file"name`, "file_name"},
		{"WithMultipleInvalid", "a<b>c:d", "a_b_c_d"},
		{"ConsecutiveUnderscores", "a___b", "a_b"},
		{"LeadingUnderscore", "_file", "file"},
		{"TrailingUnderscore", "file_", "file"},
		{"LeadingTrailingSpaces", "  file  ", "file"},
		{"Empty", "", "untitled"},
		{"OnlyInvalidChars", "<>:", "untitled"},
		{"OnlyUnderscores", "___", "untitled"},
		{"QuestionMark", "file?name", "file_name"},
		{"Asterisk", "file*name", "file_name"},
		{"Pipe", "file|name", "file_name"},
		{"NullChar", "file\x00name", "file_name"},
		{"ControlChars", "file\x01\x02name", "file_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeFilename(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSanitizeFilename_LongNames(t *testing.T) {
	// Create a string longer than maxFilenameLength (100)
	longName := ""
	for i := 0; i < 150; i++ {
		longName += "a"
	}

	result := SanitizeFilename(longName)
	if len(result) > 100 {
		t.Errorf("SanitizeFilename(long) length = %d, want <= 100", len(result))
	}
}

// --- CleanHref Tests ---

func TestCleanHref(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		path     string
		expected string
	}{
		{"QueryAndSlashes", "example.com", "a/b?c", "example.com_a_b_c"},
		{"RootPath", "theinfo.org", "/", "theinfo_org__"},
		{"EmptyPath", "theinfo.org", "", "theinfo_org_"},
		{"NoCollapse", "a.b", "--x", "a_b___x"},
		{"Alphanumeric", "abc", "XYZ09", "abc_XYZ09"},
		{"Spaces", "h", "a b", "h_a_b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanHref(tt.host, tt.path)
			if result != tt.expected {
				t.Errorf("CleanHref(%q, %q) = %q, want %q", tt.host, tt.path, result, tt.expected)
			}
		})
	}
}

func TestCleanHref_PreservesLength(t *testing.T) {
	host, path := "Example.COM", "/x?y=1&z=%20#frag"
	result := CleanHref(host, path)
	if len(result) != len(host)+1+len(path) {
		t.Errorf("CleanHref length = %d, want %d", len(result), len(host)+1+len(path))
	}
}

// --- CalculateStringSHA256 Tests ---

func TestCalculateStringSHA256(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string // SHA256 hex output
	}{
		{
			name:     "EmptyString",
			input:    "",
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "HelloWorld",
			input:    "hello world",
			expected: "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		},
		{
			name:     "SimpleText",
			input:    "test",
			expected: "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateStringSHA256(tt.input)
			if result != tt.expected {
				t.Errorf("CalculateStringSHA256(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// --- WrapErrorf Tests ---

func TestWrapErrorf(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantNil      bool
		wantMsg      string
		wantCategory string
	}{
		{
			name:    "nil stays nil",
			err:     nil,
			wantNil: true,
		},
		{
			name:         "link db write failure keeps its category",
			err:          errors.Join(ErrFilesystem, os.ErrPermission),
			wantMsg:      "persisting frontier to ./bot_db/_oct_links.db: filesystem error\npermission denied",
			wantCategory: "Filesystem_Permission",
		},
		{
			name:         "plain error",
			err:          errors.New("disk full"),
			wantMsg:      "persisting frontier to ./bot_db/_oct_links.db: disk full",
			wantCategory: "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapErrorf(tt.err, "persisting frontier to %s", "./bot_db/_oct_links.db")
			if tt.wantNil {
				if wrapped != nil {
					t.Errorf("WrapErrorf(nil, ...) = %v, want nil", wrapped)
				}
				return
			}
			if !errors.Is(wrapped, tt.err) {
				t.Errorf("WrapErrorf() result does not wrap %v", tt.err)
			}
			if wrapped.Error() != tt.wantMsg {
				t.Errorf("WrapErrorf() message = %q, want %q", wrapped.Error(), tt.wantMsg)
			}
			if got := CategorizeError(wrapped); got != tt.wantCategory {
				t.Errorf("CategorizeError(wrapped) = %q, want %q", got, tt.wantCategory)
			}
		})
	}
}
