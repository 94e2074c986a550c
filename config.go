package cstack

type Config struct {
	// CopyValues deep copies every recorded value so that later changes
	// made by the caller cannot rewrite history.
	CopyValues bool
	// EventCapacity preallocates room in the event log.
	EventCapacity int
}

var DefaultConfig = Config{}

type ConfigModifier func(*Config)

func WithConfig(config Config) ConfigModifier {
	return func(c *Config) {
		*c = config
	}
}

func WithConfigChanges(mods ...ConfigModifier) ConfigModifier {
	return func(c *Config) {
		for _, mod := range mods {
			mod(c)
		}
	}
}

func WithCopyValues(b bool) ConfigModifier {
	return func(c *Config) {
		c.CopyValues = b
	}
}

func WithEventCapacity(n int) ConfigModifier {
	return func(c *Config) {
		c.EventCapacity = n
	}
}

func (rec *Recorder) Config() Config {
	return rec.config
}
