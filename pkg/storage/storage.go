package storage

import (
	"fmt"
	"strings"
	"time"

	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
)

// Theme values accepted by the preference store.
// 偏好存储接受的主题值。
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Consent keys shown in the consent dialog.
const (
	ConsentEssential  = "essential"
	ConsentFunctional = "functional"
	ConsentAnalytics  = "analytics"
	ConsentMarketing  = "marketing"
)

// Preferences are the user's UI settings. They never affect log queries.
// Preferences 是用户的界面设置，不影响日志查询。
type Preferences struct {
	Theme     string          `yaml:"theme" json:"theme"`
	Consent   map[string]bool `yaml:"consent" json:"consent"`
	UpdatedAt time.Time       `yaml:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// DefaultPreferences returns the settings used before anything is saved.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme: ThemeDark,
		Consent: map[string]bool{
			ConsentEssential:  true,
			ConsentFunctional: false,
			ConsentAnalytics:  false,
			ConsentMarketing:  false,
		},
	}
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Theme   *string         `json:"theme"`
	Consent map[string]bool `json:"consent"`
}

func (pt Patch) applyTo(p *Preferences) error {
	if pt.Theme != nil {
		p.Theme = strings.ToLower(strings.TrimSpace(*pt.Theme))
	}
	for k, granted := range pt.Consent {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			return fmt.Errorf("%w: empty consent key", cgerrors.ErrInvalidPreference)
		}
		if key == ConsentEssential && !granted {
			return fmt.Errorf("%w: essential consent is required", cgerrors.ErrInvalidPreference)
		}
		p.Consent[key] = granted
	}
	return nil
}

// Store is the interface for persisting preferences
// Store 是用于持久化偏好的接口。
type Store interface {
	// Load returns the saved preferences, or the defaults when none exist.
	// Load 返回已保存的偏好，若不存在则返回默认值。
	Load() (Preferences, error)
	// Save replaces the stored preferences.
	// Save 替换已存储的偏好。
	Save(p Preferences) error
	// SetTheme updates only the theme.
	SetTheme(theme string) error
	// SetConsent updates a single consent toggle.
	SetConsent(key string, granted bool) error
	// Apply stores every field of the patch or none of them.
	Apply(patch Patch) (Preferences, error)
}
