package storage

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileAlertLog appends one line per alert to a plain text file.
type FileAlertLog struct {
	path string
	mu   sync.Mutex
}

func NewFileAlertLog(path string) (*FileAlertLog, error) {
	if path == "" {
		return nil, errors.New("storage: alert log path required")
	}
	return &FileAlertLog{path: path}, nil
}

func (l *FileAlertLog) Append(ctx context.Context, line string) error {
	line = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(line)

	l.mu.Lock()
	defer l.mu.Unlock()
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Lines returns every logged alert, oldest first. A missing log is empty.
func (l *FileAlertLog) Lines(ctx context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	defer f.Close()

	lines := []string{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if s := sc.Text(); s != "" {
			lines = append(lines, s)
		}
	}
	return lines, sc.Err()
}

var _ AlertLog = (*FileAlertLog)(nil)
