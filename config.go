package cookiejar

import (
	"fmt"
	"strconv"

	"github.com/jkfb/tough-cookie/env"
	"github.com/jkfb/tough-cookie/logger"
	"github.com/jkfb/tough-cookie/publicsuffix"
)

// ------------------------------------------------------------------------

type (
	// ConfigSetter is a function to set a JarConfig option.
	ConfigSetter func(c *JarConfig)
	// EnvConfigSetter is a function to use an environment value to set a
	// JarConfig option.
	EnvConfigSetter func(c *JarConfig, val string)
)

// JarConfig holds the policy knobs spec §4.F names, plus the optional
// event logger a Jar reports its activity through.
type JarConfig struct {
	// RejectPublicSuffixes refuses to store a cookie whose domain has no
	// registrable parent. Defaults to true.
	RejectPublicSuffixes bool

	// LooseMode is forwarded to Parser when a Set call doesn't override
	// it explicitly. Defaults to false.
	LooseMode bool

	// Logger receives Set/Get/eviction events, and ProcessEnv's own
	// warnings about bad or unrecognized settings. A nil Logger disables
	// logging.
	Logger logger.Logger
}

// ------------------------------------------------------------------------

// DefaultJarConfig returns the spec-mandated defaults: reject public
// suffixes, strict parsing, no logging.
func DefaultJarConfig() JarConfig {
	return JarConfig{RejectPublicSuffixes: true}
}

// ------------------------------------------------------------------------

// NewJarConfig returns DefaultJarConfig with each ConfigSetter applied in
// order, the functional-option counterpart to ProcessEnv's
// environment-driven configuration.
func NewJarConfig(opts ...ConfigSetter) JarConfig {
	c := DefaultJarConfig()
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// ------------------------------------------------------------------------

// WithLogger returns a ConfigSetter that installs l as the jar's event
// logger.
func WithLogger(l logger.Logger) ConfigSetter {
	return func(c *JarConfig) { c.Logger = l }
}

// WithLooseMode returns a ConfigSetter that sets LooseMode.
func WithLooseMode(loose bool) ConfigSetter {
	return func(c *JarConfig) { c.LooseMode = loose }
}

// ------------------------------------------------------------------------

// EnvPrefix is the prefix NewFromOSEnv/NewFromFile filter environment keys
// by before ProcessEnv dispatches them through EnvMap.
const EnvPrefix = "COOKIEJAR_"

// EnvMap dispatches a stripped-prefix environment key to the setter that
// parses and applies it, mirroring the teacher's CollectorConfig.EnvMap:
// each setter parses its own value and reports a bad value through the
// config's Logger instead of silently ignoring it.
var EnvMap = map[string]EnvConfigSetter{
	"REJECT_PUBLIC_SUFFIXES": func(c *JarConfig, val string) {
		if b, err := strconv.ParseBool(val); err != nil {
			c.logError(fmt.Errorf("REJECT_PUBLIC_SUFFIXES: %w", err))
		} else {
			c.RejectPublicSuffixes = b
		}
	},
	"LOOSE_MODE": func(c *JarConfig, val string) {
		if b, err := strconv.ParseBool(val); err != nil {
			c.logError(fmt.Errorf("LOOSE_MODE: %w", err))
		} else {
			c.LooseMode = b
		}
	},
	"PUBLIC_SUFFIX_LIST": func(c *JarConfig, val string) {
		if err := publicsuffix.LoadList(val); err != nil {
			c.logError(fmt.Errorf("PUBLIC_SUFFIX_LIST: %w", err))
		}
	},
}

// ------------------------------------------------------------------------

// ProcessEnv overlays e's key/value pairs onto c by dispatching each
// through envMap (EnvMap if nil), logging a WARN for any key envMap
// doesn't recognize.
func (c *JarConfig) ProcessEnv(e env.Environment, envMap map[string]EnvConfigSetter) {
	if envMap == nil {
		envMap = EnvMap
	}

	for k, v := range e.Values() {
		fn, present := envMap[k]
		if !present {
			c.logError(fmt.Errorf("ProcessEnv: unknown environment variable: %s%s", EnvPrefix, k))

			continue
		}

		fn(c, v)
	}
}

// ------------------------------------------------------------------------

func (c *JarConfig) logError(err error) {
	if c.Logger == nil {
		return
	}

	c.Logger.Log(logger.WARN_LEVEL, logger.NewEvent("config", "", map[string]string{"error": err.Error()}))
}

// ------------------------------------------------------------------------

// LoadJarConfigFromOSEnv returns DefaultJarConfig overlaid with whatever
// COOKIEJAR_* settings are present in the OS environment.
func LoadJarConfigFromOSEnv() JarConfig {
	c := DefaultJarConfig()
	c.ProcessEnv(env.NewFromOSEnv(EnvPrefix, nil), nil)

	return c
}

// ------------------------------------------------------------------------

// LoadJarConfigFromFile is like LoadJarConfigFromOSEnv but reads settings
// from a .env-format file at path instead of the OS environment.
func LoadJarConfigFromFile(path string) (JarConfig, error) {
	c := DefaultJarConfig()

	e, err := env.NewFromFile(EnvPrefix, path, nil)
	if err != nil {
		return c, err
	}
	c.ProcessEnv(e, nil)

	return c, nil
}
