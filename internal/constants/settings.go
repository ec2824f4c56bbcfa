package constants

const (
	// Setting keys, as persisted by every backend
	SettingMinSamples      = "minSamples"
	SettingRegretThreshold = "regretThreshold"
	SettingBedtime         = "bedtime"

	// Default Settings Values
	DefaultMinSamples      = 6
	DefaultRegretThreshold = 60
	DefaultBedtime         = ""

	// MoodEnergyMinSamples is the fixed floor for mood/energy patterns.
	// It does not follow the minSamples setting.
	MoodEnergyMinSamples = 3

	// Rating scale shared by mood, energy and sleep
	RatingMin = 1
	RatingMax = 5

	DefaultTimezone = "Local"
)
