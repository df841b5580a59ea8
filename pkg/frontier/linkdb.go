package frontier

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"octane-crawler/pkg/models"
	"octane-crawler/pkg/utils"
)

// recordFormat is one link database line. The double space before the path and the
// trailing 0 flag are kept for compatibility with existing databases; the flag is never read.
const recordFormat = "(set-link %s  %s 0)\n"

// FormatRecord renders link as a link database line, including the newline
func FormatRecord(link models.Link) string {
	return fmt.Sprintf(recordFormat, link.Host, link.Path)
}

// ParseRecord reads a link database line. Fields are whitespace separated; the second
// is the host and the third the path. Anything after is ignored.
func ParseRecord(line string) (models.Link, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return models.Link{}, fmt.Errorf("%w: link record has %d fields, want at least 3: %q", utils.ErrParsing, len(fields), line)
	}
	return models.Link{Host: fields[1], Path: fields[2]}, nil
}

// LinkDB is the flat file the frontier is persisted to at the end of a run
type LinkDB struct {
	path string
	log  *logrus.Entry
}

// NewLinkDB creates a LinkDB backed by the file at path
func NewLinkDB(path string, log *logrus.Entry) *LinkDB {
	return &LinkDB{
		path: path,
		log:  log.WithField("link_db", path),
	}
}

// Path returns the backing file path
func (db *LinkDB) Path() string {
	return db.path
}

// Save truncates the file and writes one record per link, in order. The parent
// directory is created if needed.
func (db *LinkDB) Save(links iter.Seq[models.Link]) (written int, err error) {
	if dir := filepath.Dir(db.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("%w: creating link db directory '%s': %w", utils.ErrFilesystem, dir, err)
		}
	}

	file, err := os.Create(db.path)
	if err != nil {
		return 0, fmt.Errorf("%w: creating link db '%s': %w", utils.ErrFilesystem, db.path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: closing link db '%s': %w", utils.ErrFilesystem, db.path, closeErr)
		}
	}()

	writer := bufio.NewWriter(file)
	for link := range links {
		if _, err := writer.WriteString(FormatRecord(link)); err != nil {
			return written, fmt.Errorf("%w: writing link db '%s': %w", utils.ErrFilesystem, db.path, err)
		}
		written++
	}
	if err := writer.Flush(); err != nil {
		return written, fmt.Errorf("%w: flushing link db '%s': %w", utils.ErrFilesystem, db.path, err)
	}

	db.log.Infof("Wrote %d link records", written)
	return written, nil
}

// Load parses the file line by line, calling visit for each well-formed record.
// A missing or unreadable file counts as zero records and is not an error; malformed
// and blank lines are skipped. Only a failure part-way through reading is returned.
func (db *LinkDB) Load(visit func(models.Link)) (loaded int, err error) {
	file, err := os.Open(db.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			db.log.Warn("Link db not found, nothing to reload")
		} else {
			db.log.Warnf("Link db unreadable, nothing to reload: %v", err)
		}
		return 0, nil
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	lineNo := 0
	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return loaded, fmt.Errorf("%w: reading link db '%s' at line %d: %w", utils.ErrFilesystem, db.path, lineNo+1, readErr)
		}
		if line != "" {
			lineNo++
			if strings.TrimSpace(line) != "" {
				link, parseErr := ParseRecord(line)
				if parseErr != nil {
					db.log.WithField("line", lineNo).Warn(parseErr)
				} else {
					visit(link)
					loaded++
				}
			}
		}
		if readErr != nil {
			break
		}
	}
	return loaded, nil
}
