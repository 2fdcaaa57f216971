package config

// ConfigBackend abstracts config storage behind flat dotted keys. The default
// backend is a TOML file in the XDG config directory; tests substitute an
// in-memory map.
type ConfigBackend interface {
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
	Delete(key string) error
}
