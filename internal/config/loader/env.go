package loader

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvLoader applies environment variables to a struct tagged for
// envconfig. Variables that are not set leave the field untouched.
type EnvLoader struct {
	prefix string
}

// NewEnvLoader creates a loader for variables named PREFIX_SECTION_KEY.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix}
}

// Prefix returns the variable prefix.
func (l *EnvLoader) Prefix() string { return l.prefix }

// Load applies the environment to dst, which must be a struct pointer.
func (l *EnvLoader) Load(dst any) error {
	if err := envconfig.Process(l.prefix, dst); err != nil {
		return fmt.Errorf("environment %s_*: %w", l.prefix, err)
	}
	return nil
}

// Usage lists the variables the loader understands for dst.
func (l *EnvLoader) Usage(dst any) ([]string, error) {
	infos, err := envconfig.Gather(l.prefix, dst)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(infos))
	for _, info := range infos {
		keys = append(keys, info.Key)
	}
	return keys, nil
}
