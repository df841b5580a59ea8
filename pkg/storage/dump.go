package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"octane-crawler/pkg/utils"
)

// ResponseDumper writes raw fetched responses under a storage directory, one file per link
type ResponseDumper struct {
	dir string
	log *logrus.Entry
}

// NewResponseDumper creates a dumper rooted at dir
func NewResponseDumper(dir string, log *logrus.Entry) *ResponseDumper {
	return &ResponseDumper{dir: dir, log: log}
}

// Dump writes raw to <dir>/<CleanHref(host, path)> followed by a newline, replacing any
// earlier dump for the same link. Returns the written file path.
func (d *ResponseDumper) Dump(host, path string, raw []byte) (string, error) {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return "", fmt.Errorf("%w: creating storage directory '%s': %w", utils.ErrFilesystem, d.dir, err)
	}

	target := filepath.Join(d.dir, utils.CleanHref(host, path))
	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("%w: creating dump file '%s': %w", utils.ErrFilesystem, target, err)
	}
	defer file.Close()

	if _, err := file.Write(raw); err != nil {
		return "", fmt.Errorf("%w: writing dump file '%s': %w", utils.ErrFilesystem, target, err)
	}
	if _, err := file.Write([]byte{'\n'}); err != nil {
		return "", fmt.Errorf("%w: writing dump file '%s': %w", utils.ErrFilesystem, target, err)
	}

	d.log.Debugf("Dumped %d bytes to %s", len(raw), target)
	return target, nil
}
