package config

// Config holds all inkctl configuration.
type Config struct {
	DefaultURL       string `json:"default_url"`
	SS58Prefix       uint16 `json:"ss58_prefix"`
	InclusionTimeout int    `json:"inclusion_timeout"` // seconds

	// internal: config dir path used for Save()
	configDir string
}
