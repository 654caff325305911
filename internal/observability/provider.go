// Package observability provides a centralized provider for the logging and
// metrics components used throughout marketroast.
package observability

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"marketroast/internal/observability/logger"
	"marketroast/internal/observability/metrics"
	"marketroast/internal/observability/types"
)

// Logger is a type alias for the Logger interface from the types package.
type Logger = types.Logger

// Metrics is a type alias for the Metrics interface from the types package.
type Metrics = types.Metrics

// Fields is a type alias for structured logging fields.
type Fields = types.Fields

// Config is a type alias for the observability configuration.
type Config = types.Config

// Provider is a type alias for the Provider interface from the types package.
type Provider = types.Provider

// DefaultProvider implements the Provider interface.
// Loggers and metrics are created lazily, once per component.
type DefaultProvider struct {
	config   *Config
	registry *prometheus.Registry
	loggers  map[string]Logger
	metrics  map[string]Metrics
	mu       sync.RWMutex
}

// NewProvider creates a new observability provider with the given configuration.
// LogOutput defaults to os.Stderr and Registry to a fresh registry.
//
// Example:
//
//	provider := NewProvider(&Config{
//		ServiceName: "marketroast",
//		Environment: "production",
//		LogLevel:    "info",
//	})
//	logger := provider.Logger("fetcher")
func NewProvider(config *Config) Provider {
	if config.LogOutput == nil {
		config.LogOutput = os.Stderr
	}

	registry := config.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	return &DefaultProvider{
		config:   config,
		registry: registry,
		loggers:  make(map[string]Logger),
		metrics:  make(map[string]Metrics),
	}
}

// Logger returns a Logger instance for the specified component.
//
// The returned logger includes:
//   - All fields from the provider's config.AdditionalFields
//   - A "component" field set to the provided component name
//   - Service name formatted as "{config.ServiceName}.{component}"
func (p *DefaultProvider) Logger(component string) Logger {
	p.mu.RLock()
	if l, exists := p.loggers[component]; exists {
		p.mu.RUnlock()
		return l
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check
	if l, exists := p.loggers[component]; exists {
		return l
	}

	fields := make(Fields)
	for k, v := range p.config.AdditionalFields {
		fields[k] = v
	}
	fields["component"] = component

	l := logger.New(
		fmt.Sprintf("%s.%s", p.config.ServiceName, component),
		p.config.Environment,
		p.config.LogLevel,
		p.config.LogFormat,
		p.config.LogOutput,
		fields,
	)

	p.loggers[component] = l
	return l
}

// Metrics returns a Metrics instance for the specified component.
// Every component registers on the provider's registry with a constant
// "component" label.
func (p *DefaultProvider) Metrics(component string) Metrics {
	p.mu.RLock()
	if m, exists := p.metrics[component]; exists {
		p.mu.RUnlock()
		return m
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check
	if m, exists := p.metrics[component]; exists {
		return m
	}

	m := metrics.New(p.config.ServiceName, component, p.registry)
	p.metrics[component] = m
	return m
}

// Gatherer returns the registry holding every metric created by the provider.
func (p *DefaultProvider) Gatherer() prometheus.Gatherer {
	return p.registry
}

// Close closes the LogOutput if it implements io.Closer, except for
// os.Stdout and os.Stderr.
func (p *DefaultProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if closer, ok := p.config.LogOutput.(io.Closer); ok {
		if closer != os.Stdout && closer != os.Stderr {
			return closer.Close()
		}
	}

	return nil
}
