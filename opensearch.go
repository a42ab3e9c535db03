package hopsworks

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/logicalclocks/hopsworks-go/internal/domain"
	"github.com/logicalclocks/hopsworks-go/internal/rest"
)

const openSearchPort = 9200

// variablesAPI is the internal interface for cluster variables.
type variablesAPI interface {
	ServiceDiscoveryDomain(ctx context.Context) (string, error)
	LoadBalancerExternalDomain(ctx context.Context, service string) (string, error)
}

// tokenAPI is the internal interface for OpenSearch credentials.
type tokenAPI interface {
	AuthorizationToken(ctx context.Context) (string, error)
}

// OpenSearchService derives connection configuration for the project's
// OpenSearch indices. The configuration is recomputed on every call; the
// authorization token it embeds is short-lived.
type OpenSearchService struct {
	vars    variablesAPI
	tokens  tokenAPI
	session rest.Session
	obs     *observer
}

// HostPort is one OpenSearch endpoint.
type HostPort struct {
	Host string
	Port int
}

// OpenSearchConfig is everything needed to open an OpenSearch connection
// against the cluster.
type OpenSearchConfig struct {
	Hosts             []HostPort
	Headers           map[string]string
	UseSSL            bool
	VerifyCerts       bool
	SSLAssertHostname bool
	HTTPCompress      bool
	CACertsPath       string
}

// ProjectIndexName prefixes an index name with the project name, lower
// cased, to avoid index clashes between projects. Pure function of the
// session, no I/O.
func (s *OpenSearchService) ProjectIndexName(index string) string {
	return strings.ToLower(s.session.ProjectName + "_" + index)
}

// ConnectionConfig resolves the OpenSearch endpoint, fetches a fresh
// authorization token and returns a ready-to-use connection configuration.
func (s *OpenSearchService) ConnectionConfig(ctx context.Context) (_ OpenSearchConfig, err error) {
	start := time.Now()
	defer func() { s.obs.observe("opensearch.config", start, err) }()

	endpoint, err := s.endpointURL(ctx)
	if err != nil {
		return OpenSearchConfig{}, err
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return OpenSearchConfig{}, fmt.Errorf("parse opensearch url %q: %w", endpoint, err)
	}
	port := openSearchPort
	if p := u.Port(); p != "" {
		if port, err = strconv.Atoi(p); err != nil {
			return OpenSearchConfig{}, fmt.Errorf("parse opensearch port %q: %w", p, err)
		}
	}

	token, err := s.tokens.AuthorizationToken(ctx)
	if err != nil {
		return OpenSearchConfig{}, err
	}

	return OpenSearchConfig{
		Hosts:             []HostPort{{Host: u.Hostname(), Port: port}},
		Headers:           map[string]string{"Authorization": token},
		UseSSL:            true,
		VerifyCerts:       true,
		SSLAssertHostname: false,
		HTTPCompress:      false,
		CACertsPath:       s.session.CAChainPath,
	}, nil
}

// AuthorizationToken fetches a short-lived JWT for the project's indices.
func (s *OpenSearchService) AuthorizationToken(ctx context.Context) (_ string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("opensearch.token", start, err) }()

	return s.tokens.AuthorizationToken(ctx)
}

// endpointURL resolves the OpenSearch endpoint: the external load balancer
// domain for external sessions, otherwise the service discovery hostname.
func (s *OpenSearchService) endpointURL(ctx context.Context) (string, error) {
	if s.session.External {
		external, err := s.vars.LoadBalancerExternalDomain(ctx, "opensearch")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("https://%s:%d", external, openSearchPort), nil
	}

	sd, err := s.vars.ServiceDiscoveryDomain(ctx)
	if err != nil {
		return "", err
	}
	if sd == "" {
		return "", domain.ErrServiceDiscovery
	}
	return fmt.Sprintf("https://rest.elastic.service.%s:%d", sd, openSearchPort), nil
}
