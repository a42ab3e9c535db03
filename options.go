package hopsworks

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	url         string
	apiKey      string
	projectName string
	projectID   int
	external    bool
	caChainPath string

	httpClient *http.Client
	converter  ExpectationConverter

	logger     *slog.Logger
	restLogger *zap.Logger
	metricsReg prometheus.Registerer
}

// WithURL sets the cluster base URL, e.g. "https://demo.hopsworks.ai:443".
func WithURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.url = url
	})
}

// WithAPIKey sets the API key sent with every request.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = key
	})
}

// WithProject scopes the client to a project by name and numeric id.
func WithProject(name string, id int) Option {
	return optionFunc(func(c *clientConfig) {
		c.projectName = name
		c.projectID = id
	})
}

// WithExternal marks the session as running outside the cluster. External
// sessions resolve service endpoints through the load balancer instead of
// service discovery.
func WithExternal() Option {
	return optionFunc(func(c *clientConfig) {
		c.external = true
	})
}

// WithCAChain sets the path to the cluster CA chain used for TLS
// verification of derived service connections.
func WithCAChain(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.caChainPath = path
	})
}

// WithHTTPClient overrides the transport http.Client.
// Use to control timeouts or TLS settings.
func WithHTTPClient(h *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = h
	})
}

// WithExpectationConverter registers a validation-framework bridge.
// Without it the SDK only handles its own expectation type and native
// conversions fail with ErrConverterNotConfigured.
func WithExpectationConverter(conv ExpectationConverter) Option {
	return optionFunc(func(c *clientConfig) {
		c.converter = conv
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithRequestLogger enables transport-level debug logging of every
// backend request. Pass nil to disable (default).
func WithRequestLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.restLogger = l
	})
}

// WithPrometheus registers backend call metrics (counts by outcome and
// latency histograms) on the given registerer. Pass nil to disable
// (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
