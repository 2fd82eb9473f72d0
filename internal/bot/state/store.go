// Package state persists the bot's durable state document: the configured
// flag, the reply language and the last processed update id. The document is
// rewritten after every cursor advance, so writes go through a temp file and
// a rename to never leave a torn file behind.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"botto/internal/domain/models"
)

type FileStore struct {
	path   string
	logger *slog.Logger
}

func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger,
	}
}

// Load reads the state document. A missing file is not an error: defaults
// are written out and returned.
func (s *FileStore) Load() (models.BotState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("state file missing, creating defaults", "path", s.path)

			defaults := models.DefaultBotState()
			if err := s.Save(defaults); err != nil {
				return models.BotState{}, err
			}

			return defaults, nil
		}

		return models.BotState{}, fmt.Errorf("failed to read state file: %w", err)
	}

	var botState models.BotState
	if err := json.Unmarshal(data, &botState); err != nil {
		return models.BotState{}, fmt.Errorf("failed to decode state file: %w", err)
	}

	return botState, nil
}

func (s *FileStore) Save(botState models.BotState) error {
	data, err := json.Marshal(botState)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	dir := filepath.Dir(s.path)

	tmp, err := os.CreateTemp(dir, ".botto-state-*")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return fmt.Errorf("failed to write state file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}
