package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"octane-crawler/pkg/log"
	"octane-crawler/pkg/models"
	"octane-crawler/pkg/utils"
)

const (
	fetchKeyPrefix = "fetch:"       // Prefix for link keys in DB
	ledgerDBDir    = "fetch_ledger" // Subdirectory name within stateDir for Badger DB files
)

// BadgerLedger implements the FetchLedger interface using BadgerDB.
// Records accumulate across runs; nothing reads them back to skip a fetch.
type BadgerLedger struct {
	db       *badger.DB
	log      *logrus.Entry
	ctx      context.Context // Parent context
	keyCount atomic.Int64    // Cached key count for O(1) GetRecordCount
}

// NewBadgerLedger opens (or creates) the ledger for seedHost under stateDir
func NewBadgerLedger(ctx context.Context, stateDir, seedHost string, logger *logrus.Entry) (*BadgerLedger, error) {
	ledger := &BadgerLedger{
		log: logger,
		ctx: ctx,
	}

	dbDirName := utils.SanitizeFilename(seedHost) + "_" + ledgerDBDir
	dbPath := filepath.Join(stateDir, dbDirName)

	logger.Infof("Opening fetch ledger at: %s", dbPath)

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("%w: cannot create ledger directory %s: %w", utils.ErrFilesystem, dbPath, err)
	}

	badgerLogger := log.NewBadgerLogrusAdapter(logger.WithField("component", "badgerdb"))
	opts := badger.DefaultOptions(dbPath).
		WithLogger(badgerLogger).
		WithNumVersionsToKeep(1) // Only the latest attempt per link

	var err error
	ledger.db, err = badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open badger database at %s: %w", utils.ErrDatabase, dbPath, err)
	}

	count, err := ledger.countKeys()
	if err != nil {
		logger.Warnf("Failed to count existing ledger records: %v", err)
	} else {
		ledger.keyCount.Store(int64(count))
		logger.Debugf("Fetch ledger holds %d records", count)
	}

	return ledger, nil
}

func ledgerKey(link models.Link) []byte {
	return []byte(fetchKeyPrefix + link.Host + link.Path)
}

// countKeys performs a one-time full key scan on open
func (l *BadgerLedger) countKeys() (int, error) {
	count := 0
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte(fetchKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

const maxConflictRetries = 10

// dbUpdate wraps db.Update with a retry loop for BadgerDB transaction conflicts.
func (l *BadgerLedger) dbUpdate(fn func(txn *badger.Txn) error) error {
	for i := range maxConflictRetries {
		err := l.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		l.log.Debugf("BadgerDB transaction conflict (attempt %d/%d), retrying", i+1, maxConflictRetries)
	}
	return fmt.Errorf("%w: transaction conflict not resolved after %d retries", utils.ErrDatabase, maxConflictRetries)
}

// RecordFetch implements the FetchLedger interface
func (l *BadgerLedger) RecordFetch(link models.Link, record *models.FetchRecord) error {
	if l.db == nil {
		return fmt.Errorf("%w: ledger not initialized", utils.ErrDatabase)
	}
	key := ledgerKey(link)

	recordBytes, errJson := json.Marshal(record)
	if errJson != nil {
		wrappedErr := fmt.Errorf("%w: failed to marshal fetch record for key '%s': %w", utils.ErrParsing, string(key), errJson)
		l.log.Error(wrappedErr)
		return wrappedErr
	}

	isNew := false
	err := l.dbUpdate(func(txn *badger.Txn) error {
		_, errGet := txn.Get(key)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			isNew = true
		}
		return txn.SetEntry(badger.NewEntry(key, recordBytes))
	})

	if err != nil {
		l.log.WithField("key", string(key)).Errorf("DB Update error in RecordFetch: %v", err)
		return fmt.Errorf("%w: failed recording fetch for key '%s': %w", utils.ErrDatabase, string(key), err)
	}
	if isNew {
		l.keyCount.Add(1)
	}

	l.log.Debugf("Recorded fetch for '%s' as '%s'", string(key), record.Status)
	return nil
}

// CheckFetchStatus implements the FetchLedger interface
func (l *BadgerLedger) CheckFetchStatus(link models.Link) (models.FetchStatus, *models.FetchRecord, error) {
	status := models.FetchStatusNotFound
	var record *models.FetchRecord
	key := ledgerKey(link)

	errView := l.db.View(func(txn *badger.Txn) error {
		item, errGet := txn.Get(key)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			return nil
		}
		if errGet != nil {
			return fmt.Errorf("%w: failed getting ledger key '%s': %w", utils.ErrDatabase, string(key), errGet)
		}

		return item.Value(func(val []byte) error {
			var decoded models.FetchRecord
			if errJson := json.Unmarshal(val, &decoded); errJson != nil {
				l.log.Warnf("Failed to unmarshal fetch record for key '%s': %v. Treating as 'not_found'.", string(key), errJson)
				return nil
			}
			if !decoded.Status.IsValid() {
				l.log.Warnf("Fetch record for key '%s' has invalid status %q. Treating as 'not_found'.", string(key), decoded.Status)
				return nil
			}
			record = &decoded
			status = decoded.Status
			return nil
		})
	})

	if errView != nil {
		l.log.Errorf("DB View error in CheckFetchStatus for key '%s': %v", string(key), errView)
		return models.FetchStatusDBError, nil, errView
	}

	return status, record, nil
}

// GetRecordCount implements the FetchLedger interface
func (l *BadgerLedger) GetRecordCount() (int, error) {
	return int(l.keyCount.Load()), nil
}

// WriteLedgerLog implements the FetchLedger interface.
// Each line is "<host><path>\t<status>\t<error_type>", in key order.
func (l *BadgerLedger) WriteLedgerLog(w io.Writer) error {
	writer := bufio.NewWriter(w)
	var writeErr error
	writtenCount := 0
	prefix := []byte(fetchKeyPrefix)

	iterErr := l.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			select {
			case <-l.ctx.Done():
				l.log.Warnf("WriteLedgerLog scan interrupted by context cancellation: %v", l.ctx.Err())
				return l.ctx.Err()
			default:
			}

			item := it.Item()
			target := string(bytes.TrimPrefix(item.KeyCopy(nil), prefix))

			var record models.FetchRecord
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &record) }); err != nil {
				l.log.Warnf("Skipping unreadable ledger record '%s': %v", target, err)
				continue
			}

			if _, err := fmt.Fprintf(writer, "%s\t%s\t%s\n", target, record.Status, record.ErrorType); err != nil && writeErr == nil {
				writeErr = err
			}
			writtenCount++
		}
		return nil
	})

	if flushErr := writer.Flush(); flushErr != nil && writeErr == nil {
		writeErr = flushErr
	}

	if iterErr != nil {
		if errors.Is(iterErr, context.Canceled) || errors.Is(iterErr, context.DeadlineExceeded) {
			return iterErr
		}
		return fmt.Errorf("%w: iterating ledger: %w", utils.ErrDatabase, iterErr)
	}
	if writeErr != nil {
		return fmt.Errorf("%w: writing ledger log: %w", utils.ErrFilesystem, writeErr)
	}

	l.log.Debugf("Wrote %d ledger records", writtenCount)
	return nil
}

// WriteLedgerLogFile writes the ledger log to filePath, replacing any existing file
func (l *BadgerLedger) WriteLedgerLogFile(filePath string) (err error) {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("%w: create ledger log '%s': %w", utils.ErrFilesystem, filePath, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: closing ledger log '%s': %w", utils.ErrFilesystem, filePath, closeErr)
		}
	}()
	return l.WriteLedgerLog(file)
}

// Close implements the FetchLedger interface
func (l *BadgerLedger) Close() error {
	if l.db != nil && !l.db.IsClosed() {
		if err := l.db.Close(); err != nil {
			l.log.Errorf("Error closing fetch ledger: %v", err)
			return err
		}
		l.log.Debug("Fetch ledger closed.")
	}
	return nil
}
