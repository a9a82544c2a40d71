// Package store persists concept-to-category assignments between imports,
// so recurring concepts from past seasons arrive pre-categorized.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tesouro/season-xlsx/internal/logging"
)

// DefaultMappingsFile is the file name searched for when no explicit path
// is configured.
const DefaultMappingsFile = "concept-mappings.yaml"

// ConceptMapping is the stored assignment for one concept-group key
// ("type::normalized concept").
type ConceptMapping struct {
	CategoryID string `yaml:"category"`
	TeamID     string `yaml:"team,omitempty"`
	ProjectID  string `yaml:"project,omitempty"`
}

// Store loads and saves concept mappings from a YAML file.
type Store struct {
	Path   string
	logger logging.Logger
}

// New creates a store. Path may be empty, relative (searched in standard
// locations) or absolute.
func New(path string, logger logging.Logger) *Store {
	if path == "" {
		path = DefaultMappingsFile
	}
	return &Store{Path: path, logger: logger}
}

// resolve finds the mappings file in standard locations: the path itself,
// ./config/, and ~/.config/season-xlsx/.
func (s *Store) resolve() (string, error) {
	if filepath.IsAbs(s.Path) {
		if _, err := os.Stat(s.Path); err == nil {
			return s.Path, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		s.Path,
		filepath.Join("config", s.Path),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "season-xlsx", s.Path))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// Load reads the stored mappings. A missing file is not an error; it yields
// an empty map, the state of a first-ever import.
func (s *Store) Load() (map[string]ConceptMapping, error) {
	path, err := s.resolve()
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("No concept mappings file found",
				logging.Field{Key: logging.FieldFile, Value: s.Path})
			return map[string]ConceptMapping{}, nil
		}
		return nil, fmt.Errorf("error resolving concept mappings file: %w", err)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- CLI tool reads user-configured paths
	if err != nil {
		return nil, fmt.Errorf("error reading concept mappings file: %w", err)
	}

	mappings := map[string]ConceptMapping{}
	if err := yaml.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("error parsing concept mappings: %w", err)
	}

	s.logger.Debug("Loaded concept mappings",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(mappings)})
	return mappings, nil
}

// Save writes the mappings back, creating the file (and parent directory)
// at the configured path when none exists yet.
func (s *Store) Save(mappings map[string]ConceptMapping) error {
	path, err := s.resolve()
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("error resolving concept mappings file: %w", err)
		}
		path = s.Path
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}

	data, err := yaml.Marshal(mappings)
	if err != nil {
		return fmt.Errorf("error marshaling concept mappings: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error writing concept mappings: %w", err)
	}

	s.logger.Debug("Saved concept mappings",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(mappings)})
	return nil
}
