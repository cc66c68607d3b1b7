package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

const (
	DefaultFileName = "element_inspector.log"
	maxSizeBytes    = 10 * 1024 * 1024 // 10 MB
	maxArchives     = 3
)

// Setup routes the standard logger to path with size-based rotation
// (10MB, max 3 archives). When file logging is off, logs are discarded so the
// terminal view stays clean.
func Setup(enableFileLogging bool, path string) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if !enableFileLogging {
		log.SetOutput(io.Discard)
		return
	}
	w, err := NewRotatingWriter(path, maxSizeBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		return
	}
	log.SetOutput(w)
}

// RotatingWriter appends to a file and rolls it to .1, .2, .3 once it grows
// past its size limit.
type RotatingWriter struct {
	mu    sync.Mutex
	path  string
	limit int64
	f     *os.File
}

func NewRotatingWriter(path string, limit int64) (*RotatingWriter, error) {
	if path == "" {
		path = DefaultFileName
	}
	rotate(path, limit)
	f, err := openLog(path)
	if err != nil {
		return nil, err
	}
	return &RotatingWriter{path: path, limit: limit, f: f}, nil
}

func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	// naive rotation check per write
	if st, err := w.f.Stat(); err == nil && st.Size()+int64(len(p)) > w.limit {
		_ = w.f.Close()
		forceRotate(w.path)
		nf, err := openLog(w.path)
		if err != nil {
			return 0, err
		}
		w.f = nf
	}
	return w.f.Write(p)
}

func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}

func openLog(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
}

func rotate(path string, limit int64) {
	if st, err := os.Stat(path); err == nil && st.Size() > limit {
		forceRotate(path)
	}
}

func forceRotate(path string) {
	// remove oldest, shift the rest, move current to .1
	_ = os.Remove(archiveName(path, maxArchives))
	for i := maxArchives - 1; i >= 1; i-- {
		_ = os.Rename(archiveName(path, i), archiveName(path, i+1))
	}
	_ = os.Rename(path, archiveName(path, 1))
}

func archiveName(path string, n int) string { return fmt.Sprintf("%s.%d", path, n) }
