package log

import (
	"bytes"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newDiscardEntry() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func TestNewBadgerLogrusAdapter(t *testing.T) {
	adapter := NewBadgerLogrusAdapter(newDiscardEntry())
	assert.NotNil(t, adapter)
}

func TestBadgerLogrusAdapter_Methods(t *testing.T) {
	adapter := NewBadgerLogrusAdapter(newDiscardEntry())

	assert.NotPanics(t, func() { adapter.Errorf("error %s", "test") })
	assert.NotPanics(t, func() { adapter.Warningf("warning %d", 42) })
	assert.NotPanics(t, func() { adapter.Infof("info %v", true) })
	assert.NotPanics(t, func() { adapter.Debugf("debug") })
}

func TestNew_ParsesLevel(t *testing.T) {
	entry := New("debug", io.Discard)
	assert.Equal(t, logrus.DebugLevel, entry.Logger.GetLevel())
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	entry := New("chatty", &buf)

	assert.Equal(t, logrus.InfoLevel, entry.Logger.GetLevel())
	assert.Contains(t, buf.String(), "Invalid log level 'chatty'")
}

func TestComponent(t *testing.T) {
	entry := Component(newDiscardEntry(), "fetcher")
	assert.Equal(t, "fetcher", entry.Data["component"])
}

func TestBadgerLogrusAdapter_InfoDemotedToDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.InfoLevel)
	adapter := NewBadgerLogrusAdapter(logrus.NewEntry(logger))

	adapter.Infof("compaction %d", 1)
	assert.Empty(t, buf.String())

	adapter.Warningf("value log %s", "rotated")
	assert.Contains(t, buf.String(), "value log rotated")
}
