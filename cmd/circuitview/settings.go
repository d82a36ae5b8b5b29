package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Settings holds persistent viewer settings.
type Settings struct {
	FPS          int     `toml:"fps" validate:"gte=1,lte=120"`
	CellWidth    float64 `toml:"cell_width" validate:"gt=0"`  // pixels per terminal column
	CellHeight   float64 `toml:"cell_height" validate:"gt=0"` // pixels per terminal row
	HoverSlack   float64 `toml:"hover_slack" validate:"gte=0"`
	ShowGrid     bool    `toml:"show_grid"`
	SidebarWidth int     `toml:"sidebar_width" validate:"gte=20,lte=80"`
	Seed         uint64  `toml:"seed"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		FPS:          20,
		CellWidth:    8,
		CellHeight:   16,
		HoverSlack:   12,
		SidebarWidth: 34,
	}
}

// SettingsPath returns the path to the settings file
func SettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".circuitview"
	}
	return filepath.Join(home, ".circuitview")
}

var settingsValidator = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("toml")
	})
	return v
}()

// LoadSettings reads path over the defaults. A missing file is not an error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if _, err := toml.DecodeFile(path, &s); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return DefaultSettings(), fmt.Errorf("%s: %w", path, err)
	}
	if err := settingsValidator.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return DefaultSettings(), fmt.Errorf("%s: %s failed %s=%s", path, fe.Field(), fe.Tag(), fe.Param())
		}
		return DefaultSettings(), fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// SaveSettings writes s to path.
func SaveSettings(path string, s Settings) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.WriteString("# circuitview settings\n"); err != nil {
		f.Close()
		return err
	}
	if err := toml.NewEncoder(f).Encode(s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
