// Package session persists analysis sessions: the last configuration a user
// ran and the history of classifier results trained under it.
package session

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/statlens/internal/classifier"
	"github.com/KaramelBytes/statlens/internal/pipeline"
	"github.com/KaramelBytes/statlens/internal/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const sessionFileName = "session.json"

// ErrNotFound is returned when no session matches an id.
var ErrNotFound = errors.New("session not found")

// Session is one analysis session persisted on disk.
type Session struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Config    pipeline.AnalysisConfig `json:"config"`
	Results   []*Record               `json:"results"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`

	// on-disk directory holding session.json
	rootDir string
}

// Record is one stored classifier result.
type Record struct {
	ID        string             `json:"id"`
	TrainedAt time.Time          `json:"trained_at"`
	Result    *classifier.Result `json:"result"`
}

// Store is a directory of sessions, one subdirectory per session id.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on the
// first Save.
func NewStore(dir string) *Store { return &Store{dir: dir} }

// Dir returns the store root.
func (s *Store) Dir() string { return s.dir }

// Create builds a new in-memory session. Call Save to persist it.
func (s *Store) Create(name string, cfg pipeline.AnalysisConfig) *Session {
	id := uuid.NewString()
	if strings.TrimSpace(name) == "" {
		name = id[:8]
	}
	now := time.Now()
	return &Session{
		ID:        id,
		Name:      name,
		Config:    cfg,
		CreatedAt: now,
		UpdatedAt: now,
		rootDir:   filepath.Join(s.dir, id),
	}
}

// Open loads a session by full id, unique id prefix or name.
func (s *Store) Open(ref string) (*Session, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrNotFound
	}
	if sess, err := load(filepath.Join(s.dir, ref)); err == nil {
		return sess, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	var match *Session
	for _, sess := range all {
		if sess.Name != ref && !strings.HasPrefix(sess.ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("session %q is ambiguous", ref)
		}
		match = sess
	}
	if match == nil {
		return nil, errors.Wrapf(ErrNotFound, "%q", ref)
	}
	return match, nil
}

// List returns every readable session, most recently updated first.
func (s *Store) List() ([]*Session, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read sessions dir")
	}
	var out []*Session
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sess, err := load(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		out = append(out, sess)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func load(dir string) (*Session, error) {
	b, err := os.ReadFile(filepath.Join(dir, sessionFileName))
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, errors.Wrapf(err, "parse session %s", filepath.Base(dir))
	}
	sess.rootDir = dir
	return &sess, nil
}

// RootDir returns the on-disk session directory.
func (s *Session) RootDir() string { return s.rootDir }

// Save writes session.json atomically.
func (s *Session) Save() error {
	if s.rootDir == "" {
		return errors.New("session root directory not set")
	}
	if err := utils.EnsureDir(s.rootDir); err != nil {
		return errors.Wrap(err, "ensure dir")
	}
	s.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(s)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(s.rootDir, sessionFileName), data)
}

// SetConfig replaces the stored configuration.
func (s *Session) SetConfig(cfg pipeline.AnalysisConfig) {
	s.Config = cfg
	s.UpdatedAt = time.Now()
}

// AddResult appends a classifier result stamped with the current time.
func (s *Session) AddResult(res *classifier.Result) *Record {
	rec := &Record{ID: uuid.NewString(), TrainedAt: time.Now(), Result: res}
	s.Results = append(s.Results, rec)
	s.UpdatedAt = rec.TrainedAt
	return rec
}

// HasResults reports whether any classifier result is stored.
func (s *Session) HasResults() bool { return len(s.Results) > 0 }

// Latest returns the most recently trained result.
func (s *Session) Latest() (*Record, bool) {
	if len(s.Results) == 0 {
		return nil, false
	}
	latest := s.Results[0]
	for _, r := range s.Results[1:] {
		if !r.TrainedAt.Before(latest.TrainedAt) {
			latest = r
		}
	}
	return latest, true
}

// Result finds a stored result by id or unique id prefix.
func (s *Session) Result(ref string) (*Record, error) {
	var match *Record
	for _, r := range s.Results {
		if r.ID != ref && !strings.HasPrefix(r.ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("result %q is ambiguous", ref)
		}
		match = r
	}
	if match == nil {
		return nil, fmt.Errorf("result %q not found in session %s", ref, s.Name)
	}
	return match, nil
}
