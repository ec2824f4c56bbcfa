package models

// Settings is the snapshot handed to the analytics engine
type Settings struct {
	MinSamples      int    `json:"minSamples"`      // samples an hour needs before it can be risky
	RegretThreshold int    `json:"regretThreshold"` // regret percentage at which an hour is risky
	Bedtime         string `json:"bedtime"`         // "HH:MM", empty when not configured
}
