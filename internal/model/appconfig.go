package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default nesting settings applied to new projects
	DefaultKerfWidth float64   `json:"default_kerf_width"`
	DefaultEdgeTrim  float64   `json:"default_edge_trim"`
	DefaultAlgorithm Algorithm `json:"default_algorithm"`
	DefaultPreset    Preset    `json:"default_preset"`

	// Application preferences
	RecentProjects []string `json:"recent_projects"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultKerfWidth: defaults.KerfWidth,
		DefaultEdgeTrim:  defaults.EdgeTrim,
		DefaultAlgorithm: defaults.Algorithm,
		DefaultPreset:    defaults.Preset,
		RecentProjects:   []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a CutSettings struct.
// This is used when creating a new project so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *CutSettings) {
	s.KerfWidth = c.DefaultKerfWidth
	s.EdgeTrim = c.DefaultEdgeTrim
	s.Algorithm = c.DefaultAlgorithm
	s.Preset = c.DefaultPreset
}
