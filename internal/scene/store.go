package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"github.com/Ko-stant/battlemap/internal/geometry"
	"github.com/Ko-stant/battlemap/internal/logging"
)

var ErrSceneNotFound = errors.New("scene not found")

// Store persists segment layouts under scene names.
type Store interface {
	Names() ([]string, error)
	Load(name string) ([]geometry.Placement, error)
	Save(name string, placements []geometry.Placement) error
	Delete(name string) error
}

// record is one persisted placement. A missing "active" means active.
type record struct {
	Filename string `json:"filename"`
	OffsetX  int    `json:"offset_x"`
	OffsetY  int    `json:"offset_y"`
	Active   *bool  `json:"active,omitempty"`
}

// FileStore keeps every scene in one JSON object keyed by scene name.
type FileStore struct {
	path string
	mu   deadlock.Mutex
	log  logrus.FieldLogger
}

func NewFileStore(path string, log logrus.FieldLogger) *FileStore {
	return &FileStore{
		path: path,
		log:  logging.OrDiscard(log).WithFields(logrus.Fields{"component": "scenes", "path": path}),
	}
}

// read returns all scenes. A missing or unreadable file is an empty store.
func (s *FileStore) read() map[string][]record {
	scenes := make(map[string][]record)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return scenes
	}
	if err != nil {
		s.log.WithError(err).Warn("failed to read scene file; treating as empty")
		return scenes
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.WithError(err).Warn("scene file is not a JSON object; treating as empty")
		return scenes
	}

	for name, v := range raw {
		var recs []record
		if err := json.Unmarshal(v, &recs); err != nil {
			s.log.WithField("scene", name).WithError(err).Warn("skipping malformed scene")
			continue
		}
		scenes[name] = recs
	}
	return scenes
}

func (s *FileStore) write(scenes map[string][]record) error {
	data, err := json.MarshalIndent(scenes, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode scenes: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create scene dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scenes: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace scene file: %w", err)
	}
	return nil
}

func (s *FileStore) Names() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scenes := s.read()
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) Load(name string) ([]geometry.Placement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, ok := s.read()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSceneNotFound, name)
	}
	placements := make([]geometry.Placement, 0, len(recs))
	for _, r := range recs {
		active := true
		if r.Active != nil {
			active = *r.Active
		}
		placements = append(placements, geometry.Placement{
			AssetID: r.Filename,
			OffsetX: r.OffsetX,
			OffsetY: r.OffsetY,
			Active:  active,
		})
	}
	s.log.WithFields(logrus.Fields{"scene": name, "segments": len(placements)}).Info("scene loaded")
	return placements, nil
}

func (s *FileStore) Save(name string, placements []geometry.Placement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scenes := s.read()
	recs := make([]record, 0, len(placements))
	for _, p := range placements {
		active := p.Active
		recs = append(recs, record{Filename: p.AssetID, OffsetX: p.OffsetX, OffsetY: p.OffsetY, Active: &active})
	}
	scenes[name] = recs
	if err := s.write(scenes); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"scene": name, "segments": len(recs)}).Info("scene saved")
	return nil
}

func (s *FileStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scenes := s.read()
	if _, ok := scenes[name]; !ok {
		return fmt.Errorf("%w: %q", ErrSceneNotFound, name)
	}
	delete(scenes, name)
	if err := s.write(scenes); err != nil {
		return err
	}
	s.log.WithField("scene", name).Info("scene deleted")
	return nil
}
