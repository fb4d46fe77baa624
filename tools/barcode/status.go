package barcode

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb"
)

// StatusDB is the directory, under the work dir, holding the task-status store.
const StatusDB = ".ontbc_status"

// Store remembers which task scripts already completed. A task counts as done
// only while its current script hashes to the stored digest.
type Store struct {
	db *leveldb.DB
}

func OpenStore(workDir string) (*Store, error) {
	db, err := leveldb.OpenFile(filepath.Join(workDir, StatusDB), nil)
	if err != nil {
		return nil, fmt.Errorf("open status store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Digest is the content address of a script.
func Digest(script string) string {
	sum := sha256.Sum256([]byte(script))
	return hex.EncodeToString(sum[:])
}

func taskKey(name string) []byte {
	return []byte("task/" + name)
}

// Done reports whether key was marked done with this digest.
func (s *Store) Done(key, digest string) (bool, error) {
	v, err := s.db.Get(taskKey(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("status of %s: %w", key, err)
	}
	return string(v) == digest, nil
}

func (s *Store) MarkDone(key, digest string) error {
	if err := s.db.Put(taskKey(key), []byte(digest), nil); err != nil {
		return fmt.Errorf("mark %s done: %w", key, err)
	}
	return nil
}

// Forget drops the record of key, so it runs again.
func (s *Store) Forget(key string) error {
	if err := s.db.Delete(taskKey(key), nil); err != nil {
		return fmt.Errorf("forget %s: %w", key, err)
	}
	return nil
}

// ForgetFrom forgets the named tasks and everything downstream of them, so
// the next run redoes that part of the pipeline.
func ForgetFrom(s *Store, p *Pipeline, names []string) error {
	seen := map[string]bool{}
	var queue []*Task
	for _, name := range names {
		t, ok := p.Task(name)
		if !ok {
			return fmt.Errorf("%w: no task named %q", ErrConfig, name)
		}
		queue = append(queue, t)
	}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		if err := s.Forget(t.Name); err != nil {
			return err
		}
		queue = append(queue, p.Downstream(t)...)
	}
	return nil
}
