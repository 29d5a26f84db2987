package driven

// ConfigStore provides access to application settings such as API keys,
// chunking parameters, and retrieval backends. Implementations handle
// persistence and type conversion; they may layer sources, with the
// environment taking precedence over stored values.
type ConfigStore interface {
	// Get retrieves a setting by key.
	// Returns the value and whether the key was found in any source.
	Get(key string) (any, bool)

	// GetString retrieves a string setting.
	// Returns empty string if the key is missing or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer setting.
	// Returns 0 if the key is missing or can't be read as an integer.
	GetInt(key string) int

	// GetBool retrieves a boolean setting.
	// Returns false if the key is missing or can't be read as a boolean.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice setting.
	// Returns nil if the key is missing or isn't a slice.
	GetStringSlice(key string) []string

	// Set stores a setting and persists it immediately.
	Set(key string, value any) error

	// Save persists the current settings to storage.
	Save() error

	// Load reads settings from storage.
	Load() error

	// Path returns the backing file path.
	Path() string
}
