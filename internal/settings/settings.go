package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const schemaVersion = 1

const (
	defaultRequestTimeoutSeconds = 30
	defaultDriveListPageSize     = 25
)

type OAuthSettings struct {
	ClientID     string   `json:"client_id,omitempty"`
	ClientSecret string   `json:"client_secret,omitempty"`
	TokenURL     string   `json:"token_url,omitempty"`
	Scopes       []string `json:"scopes,omitempty"`
}

type Settings struct {
	SchemaVersion         int           `json:"schema_version"`
	BackendBaseURL        string        `json:"backend_base_url,omitempty"`
	OAuth                 OAuthSettings `json:"oauth"`
	RequestTimeoutSeconds int           `json:"request_timeout_seconds,omitempty"`
	DriveListPageSize     int           `json:"drive_list_page_size,omitempty"`
}

type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load() (*Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultSettings(), nil
		}
		return nil, err
	}
	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}
	backfillSettings(&settings)
	return &settings, nil
}

func (s *Store) Save(settings *Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	backfillSettings(settings)
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *Store) Update(fn func(*Settings)) (*Settings, error) {
	settings, err := s.Load()
	if err != nil {
		return nil, err
	}
	fn(settings)
	return settings, s.Save(settings)
}

func defaultSettings() *Settings {
	return &Settings{
		SchemaVersion:         schemaVersion,
		RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
		DriveListPageSize:     defaultDriveListPageSize,
	}
}

func backfillSettings(settings *Settings) {
	if settings.SchemaVersion == 0 {
		settings.SchemaVersion = schemaVersion
	}
	settings.BackendBaseURL = strings.TrimRight(strings.TrimSpace(settings.BackendBaseURL), "/")
	if settings.RequestTimeoutSeconds <= 0 {
		settings.RequestTimeoutSeconds = defaultRequestTimeoutSeconds
	}
	if settings.DriveListPageSize <= 0 {
		settings.DriveListPageSize = defaultDriveListPageSize
	}
}
