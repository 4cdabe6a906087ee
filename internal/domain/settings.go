package domain

import "time"

// DefaultAdminPassword gates the admin area when no password has been
// configured. It is a UI nag inherited from the original client, not a
// security boundary.
const DefaultAdminPassword = "leini"

// Settings is the singleton application configuration record.
//
// The persisted document may predate newly introduced fields, so it is
// always merged over DefaultSettings at load time: present fields win,
// missing fields are backfilled with their defaults.
type Settings struct {
	GoogleScriptURL      string `json:"googleScriptUrl"`
	AdminPassword        string `json:"adminPassword"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	MaxTripDurationHours int    `json:"maxTripDurationHours"`
	StandardEndTime      string `json:"standardEndTime"`
}

// DefaultSettings returns the settings a fresh installation starts with.
func DefaultSettings() Settings {
	return Settings{
		GoogleScriptURL:      "",
		AdminPassword:        DefaultAdminPassword,
		NotificationsEnabled: false,
		MaxTripDurationHours: 4,
		StandardEndTime:      "20:00",
	}
}

// MaxTripDuration returns MaxTripDurationHours as a time.Duration.
func (s Settings) MaxTripDuration() time.Duration {
	return time.Duration(s.MaxTripDurationHours) * time.Hour
}

// EffectiveAdminPassword returns the configured admin password, falling back
// to the default constant when unset.
func (s Settings) EffectiveAdminPassword() string {
	if s.AdminPassword == "" {
		return DefaultAdminPassword
	}
	return s.AdminPassword
}
