package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// File is an in-memory store synced to a file holding one JSON session per
// line.
type File struct {
	mu   sync.Mutex
	path string
	mem  *InMemory
}

func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("file storage needs a path")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o600)
	if err != nil {
		return nil, errors.Wrapf(err, "opening session file %s", path)
	}
	defer f.Close()

	store := &File{path: path, mem: NewInMemory()}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var s Session
		if err := json.Unmarshal(line, &s); err != nil {
			return nil, fmt.Errorf("error reading file: %w", err)
		}
		_ = store.mem.SaveSession(&s)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading session file %s", path)
	}
	return store, nil
}

func (s *File) GetSession(host string) (*Session, error) {
	return s.mem.GetSession(host)
}

func (s *File) SaveSession(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.mem.SaveSession(session)
	return s.sync()
}

func (s *File) DeleteSession(host string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.mem.DeleteSession(host)
	return s.sync()
}

// sync rewrites the whole file through a temporary sibling.
func (s *File) sync() error {
	s.mem.mu.Lock()
	hosts := make([]string, 0, len(s.mem.sessions))
	for h := range s.mem.sessions {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	lines := make([][]byte, 0, len(hosts))
	for _, h := range hosts {
		b, err := json.Marshal(s.mem.sessions[h])
		if err != nil {
			s.mem.mu.Unlock()
			return errors.Wrapf(err, "encoding session %s", h)
		}
		lines = append(lines, b)
	}
	s.mem.mu.Unlock()

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return errors.Wrap(err, "creating session file")
	}
	w := bufio.NewWriter(f)
	for _, l := range lines {
		_, _ = w.Write(l)
		_ = w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrap(err, "writing session file")
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return errors.Wrap(err, "syncing session file")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "closing session file")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "replacing session file")
}
