package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/julianstephens/dfw/internal/constants"
	dfwerrors "github.com/julianstephens/dfw/internal/errors"
)

// SettingKeys lists the keys the store accepts
var SettingKeys = []string{
	constants.SettingMinSamples,
	constants.SettingRegretThreshold,
	constants.SettingBedtime,
}

// DefaultSettings returns the settings used when nothing is stored
func DefaultSettings() Settings {
	return Settings{
		MinSamples:      constants.DefaultMinSamples,
		RegretThreshold: constants.DefaultRegretThreshold,
		Bedtime:         constants.DefaultBedtime,
	}
}

// SettingsFromMap converts stored key/value pairs into Settings, applying
// defaults for missing keys. Unparseable or non-positive numbers fall back to
// their defaults as well, matching how a missing value is treated.
func SettingsFromMap(data map[string]string) Settings {
	settings := DefaultSettings()

	if v, ok := data[constants.SettingMinSamples]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			settings.MinSamples = n
		}
	}
	if v, ok := data[constants.SettingRegretThreshold]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			settings.RegretThreshold = n
		}
	}
	if v, ok := data[constants.SettingBedtime]; ok {
		settings.Bedtime = v
	}

	return settings
}

// SettingsToMap converts Settings to the key/value form the store persists
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingMinSamples:      strconv.Itoa(settings.MinSamples),
		constants.SettingRegretThreshold: strconv.Itoa(settings.RegretThreshold),
		constants.SettingBedtime:         settings.Bedtime,
	}
}

// ValidateSetting checks a key/value pair before it is written
func ValidateSetting(key, value string) error {
	switch key {
	case constants.SettingMinSamples:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: %s must be a positive integer, got %q", dfwerrors.ErrInvalidArgument, key, value)
		}
	case constants.SettingRegretThreshold:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 100 {
			return fmt.Errorf("%w: %s must be an integer between 1 and 100, got %q", dfwerrors.ErrInvalidArgument, key, value)
		}
	case constants.SettingBedtime:
		if value == "" {
			return nil
		}
		if _, err := time.Parse(constants.TimeFormat, value); err != nil {
			return fmt.Errorf("%w: %s must be HH:MM or empty, got %q", dfwerrors.ErrInvalidArgument, key, value)
		}
	default:
		return fmt.Errorf("%w: unknown setting %q", dfwerrors.ErrInvalidArgument, key)
	}
	return nil
}
