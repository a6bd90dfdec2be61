package models

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveDir is where sessions are persisted. Overridable via config.
var SaveDir = ".saves"

// Save writes the player state under SaveDir/<name>/ as two YAML files:
// the character sheet and the story history.
func (s PlayerState) Save(name string) error {
	dir := filepath.Join(SaveDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	sheet := s
	sheet.History = nil
	sheetData, err := yaml.Marshal(sheet)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "character.yaml"), sheetData, 0644); err != nil {
		return err
	}

	historyData, err := yaml.Marshal(s.History)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "history.yaml"), historyData, 0644)
}

// LoadState reads a previously saved player state.
func LoadState(name string) (PlayerState, error) {
	dir := filepath.Join(SaveDir, name)

	sheetData, err := os.ReadFile(filepath.Join(dir, "character.yaml"))
	if err != nil {
		return PlayerState{}, err
	}
	var state PlayerState
	if err := yaml.Unmarshal(sheetData, &state); err != nil {
		return PlayerState{}, err
	}

	historyData, err := os.ReadFile(filepath.Join(dir, "history.yaml"))
	if err != nil {
		return PlayerState{}, err
	}
	if err := yaml.Unmarshal(historyData, &state.History); err != nil {
		return PlayerState{}, err
	}

	return state, nil
}

// ListSaves returns the names of saved sessions under SaveDir.
func ListSaves() ([]string, error) {
	if _, err := os.Stat(SaveDir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(SaveDir)
	if err != nil {
		return nil, err
	}

	var saves []string
	for _, entry := range entries {
		if entry.IsDir() {
			// character.yaml marks a valid save.
			marker := filepath.Join(SaveDir, entry.Name(), "character.yaml")
			if _, err := os.Stat(marker); err == nil {
				saves = append(saves, entry.Name())
			}
		}
	}
	return saves, nil
}
