package preferences

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"golang.org/x/text/language"
)

var (
	ErrInvalidLanguage = errors.New("invalid language")
	ErrInvalidTheme    = errors.New("invalid theme")
)

// Themes that can be selected.
var Themes = []string{"system", "light", "dark"}

// Settings are the UI preferences.
type Settings struct {
	// BCP 47 code of the UI language
	Language string `yaml:"language" json:"language" example:"ru"`

	Theme string `yaml:"theme" json:"theme" example:"dark"`

	// Identifier of the accent color scheme
	ColorScheme string `yaml:"color_scheme" json:"colorScheme" example:"green"`
}

// DefaultSettings are used until settings have been saved.
var DefaultSettings = Settings{
	Language:    "en",
	Theme:       "system",
	ColorScheme: "green",
}

// Validate checks language and theme.
func (s Settings) Validate() error {
	if _, err := language.Parse(s.Language); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidLanguage, s.Language, err)
	}

	if !slices.Contains(Themes, s.Theme) {
		return fmt.Errorf("%w %q, must be one of %v", ErrInvalidTheme, s.Theme, Themes)
	}

	return nil
}

// Tag returns the language tag, English if the language is invalid.
func (s Settings) Tag() language.Tag {
	tag, err := language.Parse(s.Language)
	if err != nil {
		return language.English
	}
	return tag
}

// AccountSnapshot is the last known account, used to render before the
// first fetch completes.
type AccountSnapshot struct {
	ID       int64           `yaml:"id" json:"id"`
	Name     string          `yaml:"name" json:"name"`
	Balance  decimal.Decimal `yaml:"balance" json:"balance"`
	Currency string          `yaml:"currency" json:"currency"`
}

// IsZero reports whether no snapshot has been saved.
func (a AccountSnapshot) IsZero() bool {
	return a.ID == 0
}

// Preferences are both preference stores.
type Preferences struct {
	Settings *File[Settings]
	Account  *File[AccountSnapshot]
}

// Open returns the preferences stored in dir, creating dir if needed.
func Open(dir string) (*Preferences, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating preferences directory: %w", err)
	}

	return &Preferences{
		Settings: NewFile(filepath.Join(dir, "settings.yaml"), DefaultSettings),
		Account:  NewFile(filepath.Join(dir, "account.yaml"), AccountSnapshot{}),
	}, nil
}

// UpdateSettings validates and saves the settings after applying fn.
func (p *Preferences) UpdateSettings(fn func(s *Settings)) (Settings, error) {
	return p.Settings.Update(func(s *Settings) error {
		fn(s)
		return s.Validate()
	})
}
