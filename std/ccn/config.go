package ccn

import (
	"net/url"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/gorilla/schema"
)

// defaultSocketPath is the daemon's well-known socket (§6).
const defaultSocketPath = "/tmp/.ccnd.sock"

// defaultLifetimeUs is LIFETIME, the protocol-constant maximum age of
// an outstanding Interest (§4.7, §9 GLOSSARY).
const defaultLifetimeUs = 4_000_000

// defaultMaxOutputBuffer is this implementation's answer to §9's open
// question on the output buffer's bound (§14): 1MiB of backlog before
// Put starts failing with ErrOutputBufferFull.
const defaultMaxOutputBuffer = 1 << 20

// Config holds everything Create needs to seed a Handle from (§6
// Environment, §10.3): assembled in priority order from explicit
// HandleOptions, individual CCN_* environment variables that are set,
// a YAML file named by CCN_CLIENT_CONFIG, then these defaults.
type Config struct {
	SocketPath      string `yaml:"socket_path" schema:"-"`
	PortSuffix      string `yaml:"port_suffix" schema:"CCN_LOCAL_PORT"`
	Debug           bool   `yaml:"debug" schema:"-"`
	TapPrefix       string `yaml:"tap_prefix" schema:"-"`
	LifetimeUs      int64  `yaml:"lifetime_us" schema:"-"`
	MaxOutputBuffer int    `yaml:"max_output_buffer" schema:"-"`
}

func defaultConfig() Config {
	return Config{
		SocketPath:      defaultSocketPath,
		LifetimeUs:      defaultLifetimeUs,
		MaxOutputBuffer: defaultMaxOutputBuffer,
	}
}

// LoadConfig assembles a Config the way §10.3 describes: defaults,
// then CCN_CLIENT_CONFIG (a YAML file, parsed with goccy/go-yaml) if
// set, then individual CCN_* environment variables decoded with
// gorilla/schema's Decoder.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CCN_CLIENT_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, osErr(0, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, osErr(0, err)
		}
	}

	if err := decodeEnv(&cfg); err != nil {
		return cfg, err
	}

	// CCN_DEBUG (§6): any non-empty value sets Debug, which turns on the
	// checkInterests consistency walk; errors are not printed verbosely.
	// This one isn't schema-decoded because its presence, not its
	// value, is what matters.
	if v := os.Getenv("CCN_DEBUG"); v != "" {
		cfg.Debug = true
	}
	// CCN_TAP (§6): a non-empty path prefix for output mirroring.
	if v := os.Getenv("CCN_TAP"); v != "" {
		cfg.TapPrefix = v
	}

	if cfg.PortSuffix != "" {
		if len(cfg.PortSuffix) < 1 || len(cfg.PortSuffix) > 10 {
			return cfg, ErrInvalid
		}
		cfg.SocketPath = cfg.SocketPath + "." + cfg.PortSuffix
	}

	return cfg, nil
}

// decodeEnv uses gorilla/schema, normally aimed at url.Values from an
// HTTP form, to decode the process environment into cfg's
// schema-tagged fields — the same "treat a string map as a typed
// struct" trick, applied to os.Environ() instead of a request body.
func decodeEnv(cfg *Config) error {
	values := url.Values{}
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				values.Set(kv[:i], kv[i+1:])
				break
			}
		}
	}
	if _, ok := values["CCN_LOCAL_PORT"]; !ok {
		return nil
	}
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec.Decode(cfg, values)
}
