// ABOUTME: Feature toggles for optional reader features
// ABOUTME: Environment-backed and static managers, carried through request contexts

package featureflags

import (
	"context"
	"os"
	"strings"
	"sync"
)

// FeatureFlag names a toggle
type FeatureFlag string

const (
	// ReadAloud exposes the read-aloud endpoints
	ReadAloud FeatureFlag = "read_aloud"

	// Translation enables word and page translation
	Translation FeatureFlag = "translation"

	// Import enables creating articles from URLs or pasted text
	Import FeatureFlag = "import"

	// Dictation enables dictation practice
	Dictation FeatureFlag = "dictation"

	// RateLimit enables per-client rate limiting
	RateLimit FeatureFlag = "rate_limit"

	// ServerAnnotationSync pushes word annotations to the backend
	ServerAnnotationSync FeatureFlag = "server_annotation_sync"
)

// Defaults is the state of every flag when nothing overrides it
var Defaults = map[FeatureFlag]bool{
	ReadAloud:            true,
	Translation:          true,
	Import:               true,
	Dictation:            true,
	RateLimit:            true,
	ServerAnnotationSync: true,
}

// Manager reports flag states
type Manager interface {
	IsEnabled(ctx context.Context, flag FeatureFlag) bool
	SetEnabled(flag FeatureFlag, enabled bool)
	GetAllFlags() map[FeatureFlag]bool
}

// EnvManager reads flags from <prefix><FLAG> environment variables,
// falling back to Defaults
type EnvManager struct {
	mu        sync.RWMutex
	overrides map[FeatureFlag]bool
	prefix    string
}

// NewEnvManager creates an environment-backed manager
func NewEnvManager(prefix string) *EnvManager {
	if prefix == "" {
		prefix = "FEATURE_"
	}
	return &EnvManager{
		overrides: make(map[FeatureFlag]bool),
		prefix:    prefix,
	}
}

// IsEnabled checks overrides, then the environment, then Defaults
func (m *EnvManager) IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	m.mu.RLock()
	enabled, ok := m.overrides[flag]
	m.mu.RUnlock()
	if ok {
		return enabled
	}

	switch strings.ToLower(strings.TrimSpace(os.Getenv(m.prefix + strings.ToUpper(string(flag))))) {
	case "true", "1", "enabled", "on":
		return true
	case "false", "0", "disabled", "off":
		return false
	default:
		return Defaults[flag]
	}
}

// SetEnabled overrides a flag
func (m *EnvManager) SetEnabled(flag FeatureFlag, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[flag] = enabled
}

// GetAllFlags returns the state of all known flags
func (m *EnvManager) GetAllFlags() map[FeatureFlag]bool {
	ctx := context.Background()
	flags := make(map[FeatureFlag]bool, len(Defaults))
	for flag := range Defaults {
		flags[flag] = m.IsEnabled(ctx, flag)
	}
	return flags
}

// StaticManager holds fixed flag states; unknown flags are disabled
type StaticManager struct {
	mu    sync.RWMutex
	flags map[FeatureFlag]bool
}

// NewStaticManager creates a manager with predefined flag states
func NewStaticManager(flags map[FeatureFlag]bool) *StaticManager {
	copied := make(map[FeatureFlag]bool, len(flags))
	for k, v := range flags {
		copied[k] = v
	}
	return &StaticManager{flags: copied}
}

// IsEnabled reports a flag state
func (m *StaticManager) IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags[flag]
}

// SetEnabled sets a flag state
func (m *StaticManager) SetEnabled(flag FeatureFlag, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[flag] = enabled
}

// GetAllFlags returns all flag states
func (m *StaticManager) GetAllFlags() map[FeatureFlag]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[FeatureFlag]bool, len(m.flags))
	for k, v := range m.flags {
		result[k] = v
	}
	return result
}

type contextKey struct{}

// WithManager adds a manager to the context
func WithManager(ctx context.Context, manager Manager) context.Context {
	return context.WithValue(ctx, contextKey{}, manager)
}

// FromContext returns the context's manager, or one holding Defaults
func FromContext(ctx context.Context) Manager {
	if manager, ok := ctx.Value(contextKey{}).(Manager); ok {
		return manager
	}
	return NewStaticManager(Defaults)
}

// IsEnabled checks a flag using the context's manager
func IsEnabled(ctx context.Context, flag FeatureFlag) bool {
	return FromContext(ctx).IsEnabled(ctx, flag)
}
