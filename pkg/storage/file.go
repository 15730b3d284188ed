package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cyberguard/cyberguard/internal/utils/fileutil"
	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
)

// YAMLStore implements the Store interface using a local YAML file
// YAMLStore 使用本地 YAML 文件实现 Store 接口。
type YAMLStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewYAMLStore creates a new YAML-based preference store.
// NewYAMLStore 创建一个新的基于 YAML 的偏好存储。
func NewYAMLStore(path string) *YAMLStore {
	return &YAMLStore{path: path, now: time.Now}
}

// Load reads the preference file.
func (s *YAMLStore) Load() (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save validates and writes p.
func (s *YAMLStore) Save(p Preferences) error {
	if err := validate(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.UpdatedAt = s.now().UTC()
	return s.write(p)
}

// SetTheme updates the theme.
func (s *YAMLStore) SetTheme(theme string) error {
	_, err := s.Apply(Patch{Theme: &theme})
	return err
}

// SetConsent records a consent decision. Essential consent cannot be revoked.
func (s *YAMLStore) SetConsent(key string, granted bool) error {
	_, err := s.Apply(Patch{Consent: map[string]bool{key: granted}})
	return err
}

// Apply validates the whole patch and writes it in one step.
// Nothing is stored if any field is rejected.
// Apply 校验整个补丁后一次性写入；任一字段无效则不写入。
func (s *YAMLStore) Apply(patch Patch) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load()
	if err != nil {
		return p, err
	}
	if err := patch.applyTo(&p); err != nil {
		return p, err
	}
	if err := validate(p); err != nil {
		return p, err
	}
	p.UpdatedAt = s.now().UTC()
	return p, s.write(p)
}

func (s *YAMLStore) load() (Preferences, error) {
	p := DefaultPreferences()
	data, err := os.ReadFile(filepath.Clean(s.path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return p, err
	}

	var stored Preferences
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return p, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	if stored.Theme != "" {
		p.Theme = stored.Theme
	}
	for k, v := range stored.Consent {
		p.Consent[k] = v
	}
	p.UpdatedAt = stored.UpdatedAt
	return p, nil
}

func (s *YAMLStore) write(p Preferences) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return fileutil.AtomicWriteFile(s.path, data, 0600)
}

func validate(p Preferences) error {
	switch p.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return fmt.Errorf("%w: theme %q", cgerrors.ErrInvalidPreference, p.Theme)
	}
	if granted, ok := p.Consent[ConsentEssential]; ok && !granted {
		return fmt.Errorf("%w: essential consent is required", cgerrors.ErrInvalidPreference)
	}
	return nil
}
