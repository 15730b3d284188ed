package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*YAMLStore, string) {
	path := filepath.Join(t.TempDir(), "prefs", "preferences.yaml")
	s := NewYAMLStore(path)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return s, path
}

// TestYAMLStore_Defaults tests loading without a file
// TestYAMLStore_Defaults 测试无文件时加载默认值
func TestYAMLStore_Defaults(t *testing.T) {
	s, path := newTestStore(t)

	p, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), p)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "Load must not create the file")
}

// TestYAMLStore_SetThemeAndConsent tests partial updates
// TestYAMLStore_SetThemeAndConsent 测试部分更新
func TestYAMLStore_SetThemeAndConsent(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.SetTheme(" Light "))
	require.NoError(t, s.SetConsent("analytics", true))

	p, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, p.Theme)
	assert.True(t, p.Consent[ConsentAnalytics])
	assert.False(t, p.Consent[ConsentMarketing])
	assert.True(t, p.Consent[ConsentEssential])
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), p.UpdatedAt)

	// A fresh store sees the same file
	again, err := NewYAMLStore(s.path).Load()
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestYAMLStore_Invalid(t *testing.T) {
	s, _ := newTestStore(t)

	assert.ErrorIs(t, s.SetTheme("neon"), cgerrors.ErrInvalidPreference)
	assert.ErrorIs(t, s.SetConsent("", true), cgerrors.ErrInvalidPreference)
	assert.ErrorIs(t, s.SetConsent(ConsentEssential, false), cgerrors.ErrInvalidPreference)

	p := DefaultPreferences()
	p.Theme = ""
	assert.ErrorIs(t, s.Save(p), cgerrors.ErrInvalidPreference)
}

// TestYAMLStore_ApplyAllOrNothing tests that a rejected patch stores nothing
// TestYAMLStore_ApplyAllOrNothing 测试被拒绝的补丁不会写入任何字段
func TestYAMLStore_ApplyAllOrNothing(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.SetTheme(ThemeSystem))

	light := "light"
	_, err := s.Apply(Patch{Theme: &light, Consent: map[string]bool{ConsentEssential: false}})
	assert.ErrorIs(t, err, cgerrors.ErrInvalidPreference)

	neon := "neon"
	_, err = s.Apply(Patch{Theme: &neon, Consent: map[string]bool{ConsentAnalytics: true}})
	assert.ErrorIs(t, err, cgerrors.ErrInvalidPreference)

	p, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, ThemeSystem, p.Theme)
	assert.False(t, p.Consent[ConsentAnalytics])

	got, err := s.Apply(Patch{Theme: &light, Consent: map[string]bool{" Marketing ": true}})
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, got.Theme)
	assert.True(t, got.Consent[ConsentMarketing])
}

func TestYAMLStore_CorruptFile(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("theme: [broken"), 0600))

	_, err := s.Load()
	assert.Error(t, err)
}

func TestYAMLStore_ConcurrentUpdates(t *testing.T) {
	s, _ := newTestStore(t)
	keys := []string{"a", "b", "c", "d", "e", "f"}

	var wg sync.WaitGroup
	for _, k := range keys {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			assert.NoError(t, s.SetConsent(k, true))
		}(k)
	}
	wg.Wait()

	p, err := s.Load()
	require.NoError(t, err)
	for _, k := range keys {
		assert.True(t, p.Consent[k], k)
	}
}
