package config

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Initialize creates a configuration directory with the default config, an
// empty recordings directory and a directory for each configured drive. An
// existing config.yaml is kept.
func Initialize(dir string, logger zerolog.Logger) (*Configuration, error) {
	return InitializeFs(afero.NewOsFs(), dir, logger)
}

// InitializeFs is Initialize on fsys.
func InitializeFs(fsys afero.Fs, dir string, logger zerolog.Logger) (*Configuration, error) {
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	switch exists, err := afero.Exists(fsys, configPath); {
	case err != nil:
		return nil, err
	case exists:
		logger.Info().Str("path", configPath).Msg("keeping existing configuration")
	default:
		logger.Info().Str("path", configPath).Msg("writing default configuration")
		if err := afero.WriteFile(fsys, configPath, defaultConfigData, 0644); err != nil {
			return nil, err
		}
	}

	cfg, err := LoadFs(fsys, dir)
	if err != nil {
		return nil, err
	}

	dirs := []string{filepath.Join(dir, RecordingsDirName)}
	for _, d := range cfg.Drives {
		path := d.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		dirs = append(dirs, path)
	}

	for _, d := range dirs {
		logger.Debug().Str("path", d).Msg("creating directory")
		if err := fsys.MkdirAll(d, os.ModePerm); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
