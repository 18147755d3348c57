package repository

import (
	"errors"
	"time"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/store"
)

type SettingsRepository interface {
	Get() (*model.Settings, error)
	Save(settings *model.Settings) error
}

type settingsRepo struct {
	store *store.Store
}

func NewSettingsRepo(s *store.Store) SettingsRepository {
	return &settingsRepo{store: s}
}

func (r *settingsRepo) Get() (*model.Settings, error) {
	var settings model.Settings
	err := r.store.Load(KeySettings, &settings)
	if errors.Is(err, store.ErrKeyNotFound) {
		defaults := model.DefaultSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepo) Save(settings *model.Settings) error {
	settings.UpdatedAt = time.Now()
	return r.store.Save(KeySettings, settings)
}
