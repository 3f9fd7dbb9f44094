package server

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cwkr/birthday-board/internal/birthdays"
	"github.com/cwkr/birthday-board/internal/logger"
	"github.com/cwkr/birthday-board/internal/oauth2"
	"github.com/cwkr/birthday-board/internal/people"
	"github.com/go-playground/validator/v10"
	"github.com/hjson/hjson-go/v4"
	"github.com/juju/errors"
	"github.com/leebenson/conform"
)

const GraphTokenEnv = "BIRTHDAY_BOARD_GRAPH_TOKEN"

type Settings struct {
	Port            int                              `json:"port" validate:"gte=1,lte=65535"`
	BasePath        string                           `json:"base_path,omitempty" conform:"trim" validate:"omitempty,startswith=/,endsnotwith=/"`
	Limit           int                              `json:"limit" validate:"gte=1,lte=100"`
	DistanceMode    string                           `json:"distance_mode" conform:"trim,lower" validate:"oneof=exact approximate"`
	Concurrency     int                              `json:"concurrency" validate:"gte=1,lte=256"`
	MaxPages        int                              `json:"max_pages" validate:"gte=1"`
	FailFast        bool                             `json:"fail_fast,omitempty"`
	LazyPhotos      bool                             `json:"lazy_photos,omitempty"`
	RefreshInterval int                              `json:"refresh_interval" validate:"gte=60"`
	RefreshTimeout  int                              `json:"refresh_timeout" validate:"gte=1"`
	HTTPTimeout     int                              `json:"http_timeout" validate:"gte=1"`
	PeopleStore     *people.StoreSettings            `json:"people_store,omitempty"`
	People          map[string]people.EmbeddedPerson `json:"people,omitempty"`
	RequireJWT      bool                             `json:"require_jwt,omitempty"`
	Keys            []string                         `json:"keys,omitempty"`
	Log             logger.Settings                  `json:"log"`
	publicKeys      map[string]any
}

func NewDefaultSettings() *Settings {
	return &Settings{
		Port:            6090,
		Limit:           birthdays.DefaultLimit,
		DistanceMode:    birthdays.Exact.String(),
		Concurrency:     birthdays.DefaultConcurrency,
		MaxPages:        people.DefaultMaxPages,
		RefreshInterval: 3_600,
		RefreshTimeout:  120,
		HTTPTimeout:     30,
		Log: logger.Settings{
			Level: "info",
		},
	}
}

// Load overlays the hjson (or plain json) file on top of s. A missing file
// leaves s untouched.
func (s *Settings) Load(filename string) error {
	var bytes, err = os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Trace(err)
	}
	if err := hjson.Unmarshal(bytes, s); err != nil {
		return errors.Annotatef(err, "parse %s", filename)
	}
	return nil
}

// ApplyEnvironment fills the directory token from the environment when the
// settings file has none.
func (s *Settings) ApplyEnvironment() {
	if s.PeopleStore != nil && s.PeopleStore.Token == "" {
		s.PeopleStore.Token = os.Getenv(GraphTokenEnv)
	}
}

// Validate trims string fields and checks every constraint.
func (s *Settings) Validate() error {
	if err := conform.Strings(s); err != nil {
		return errors.Trace(err)
	}
	if s.PeopleStore != nil {
		if err := conform.Strings(s.PeopleStore); err != nil {
			return errors.Trace(err)
		}
	}
	if err := validator.New().Struct(s); err != nil {
		return errors.Annotate(err, "invalid settings")
	}
	if s.RequireJWT && len(s.Keys) == 0 {
		return errors.New("invalid settings: require_jwt needs at least one key")
	}
	return nil
}

func (s *Settings) LoadKeys(basePath string) error {
	var err error
	s.publicKeys, err = oauth2.LoadPublicKeys(basePath, s.Keys)
	return errors.Trace(err)
}

func (s Settings) PublicKeys() map[string]any {
	return s.publicKeys
}

func (s Settings) Mode() birthdays.Mode {
	var mode, _ = birthdays.ParseMode(s.DistanceMode)
	return mode
}

func (s Settings) FinderConfig() *birthdays.ConfigFinder {
	return &birthdays.ConfigFinder{
		Limit:       s.Limit,
		MaxPages:    s.MaxPages,
		Concurrency: s.Concurrency,
		Mode:        s.Mode(),
		FailFast:    s.FailFast,
		LazyPhotos:  s.LazyPhotos,
	}
}

func (s Settings) BoardConfig() *birthdays.ConfigBoard {
	return &birthdays.ConfigBoard{
		RefreshTimeout: time.Duration(s.RefreshTimeout) * time.Second,
		PhotoTTL:       2 * time.Duration(s.RefreshInterval) * time.Second,
	}
}

func (s Settings) RefreshEvery() time.Duration {
	return time.Duration(s.RefreshInterval) * time.Second
}

func (s Settings) HTTPClientTimeout() time.Duration {
	return time.Duration(s.HTTPTimeout) * time.Second
}

// SettingsDir is the directory relative file references are resolved
// against.
func SettingsDir(settingsFilename string) string {
	return filepath.Dir(settingsFilename)
}
