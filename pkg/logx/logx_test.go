package logx

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dicklesworthstone/gallery_viewer/pkg/model"
)

func TestWithGalleryAddsFields(t *testing.T) {
	capture := &logCapture{}
	logger, err := New(capture, "info")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log := WithGallery(logger, "g-1", model.Key{AppLabel: "shop", ContentType: "product", ObjectID: 7})
	log.Info("opened")

	entry := capture.firstEntry(t)
	if entry["gallery"] != "g-1" {
		t.Fatalf("expected gallery field, got %+v", entry)
	}
	if entry["key"] != "shop/product/7" {
		t.Fatalf("expected key field, got %+v", entry)
	}
}

func TestWithGallerySkipsZeroKey(t *testing.T) {
	capture := &logCapture{}
	logger, _ := New(capture, "info")
	WithGallery(logger, "g-2", model.Key{}).Info("opened")

	entry := capture.firstEntry(t)
	if _, ok := entry["key"]; ok {
		t.Fatalf("did not expect key for zero key, got %+v", entry)
	}
}

func TestLevelFiltering(t *testing.T) {
	capture := &logCapture{}
	logger, _ := New(capture, "warn")
	logger.Info("dropped")
	if capture.buf.Len() != 0 {
		t.Fatalf("info written at warn level: %s", capture.buf.String())
	}

	if _, err := Options("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gv.log")
	logger, closer, err := OpenFile(path, "debug")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	logger.Debug("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !bytes.Contains(data, []byte("hello")) {
		t.Errorf("log file missing entry: %s", data)
	}
}

type logCapture struct {
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	return c.buf.Write(p)
}

func (c *logCapture) firstEntry(t *testing.T) map[string]any {
	t.Helper()
	data := c.buf.Bytes()
	idx := bytes.IndexByte(data, '\n')
	if idx == -1 {
		idx = len(data)
	}
	line := bytes.TrimSpace(data[:idx])
	entry := map[string]any{}
	if err := json.Unmarshal(line, &entry); err != nil {
		t.Fatalf("parse log entry: %v", err)
	}
	return entry
}
