package hopsworks

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/logicalclocks/hopsworks-go/internal/config"
	"github.com/logicalclocks/hopsworks-go/internal/domain"
	"github.com/logicalclocks/hopsworks-go/internal/logger"
	expectationrepo "github.com/logicalclocks/hopsworks-go/internal/repository/expectation"
	suiterepo "github.com/logicalclocks/hopsworks-go/internal/repository/expectationsuite"
	modelrepo "github.com/logicalclocks/hopsworks-go/internal/repository/model"
	opensearchrepo "github.com/logicalclocks/hopsworks-go/internal/repository/opensearch"
	variablesrepo "github.com/logicalclocks/hopsworks-go/internal/repository/variables"
	"github.com/logicalclocks/hopsworks-go/internal/rest"
)

// Client is the hopsworks SDK entry point. It carries the shared REST
// transport and the project identity; per-resource services are created
// from it. A Client is safe to build once per process and reuse; each
// service instance is not meant for concurrent mutation.
type Client struct {
	rest      *rest.Client
	vars      variablesAPI
	tokens    tokenAPI
	converter ExpectationConverter
	obs       *observer
}

// New creates a hopsworks Client. No network call is made; the first
// request happens on the first service operation.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.url == "" {
		return nil, errors.New("hopsworks: cluster URL required (use WithURL)")
	}
	if cfg.apiKey == "" {
		return nil, errors.New("hopsworks: API key required (use WithAPIKey)")
	}
	if cfg.projectName == "" || cfg.projectID <= 0 {
		return nil, errors.New("hopsworks: project required (use WithProject)")
	}

	restClient, err := rest.New(rest.Config{
		URL:    cfg.url,
		APIKey: cfg.apiKey,
		Session: rest.Session{
			ProjectID:   cfg.projectID,
			ProjectName: cfg.projectName,
			External:    cfg.external,
			CAChainPath: cfg.caChainPath,
		},
		HTTPClient: cfg.httpClient,
		Logger:     cfg.restLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("hopsworks: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg, cfg.projectName)
	if err != nil {
		return nil, err
	}

	return &Client{
		rest:      restClient,
		vars:      variablesrepo.New(restClient),
		tokens:    opensearchrepo.New(restClient),
		converter: cfg.converter,
		obs:       obs,
	}, nil
}

// NewFromProfile creates a Client from a YAML connection profile, looked
// up by environment name in ./config/ or ~/.hopsworks/. Extra options
// override profile values.
func NewFromProfile(env string, opts ...Option) (*Client, error) {
	profile, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("hopsworks: %w", err)
	}

	restLog, err := logger.New(env, profile.Logging.Level)
	if err != nil {
		restLog = zap.NewNop()
	}

	base := []Option{
		WithURL(profile.Cluster.URL),
		WithAPIKey(profile.Cluster.APIKey),
		WithProject(profile.Project.Name, profile.Project.ID),
		WithCAChain(profile.Cluster.CAChain),
		WithHTTPClient(&http.Client{
			Timeout: time.Duration(profile.Cluster.TimeoutSec) * time.Second,
		}),
		WithRequestLogger(restLog),
	}
	if profile.Project.External {
		base = append(base, WithExternal())
	}
	return New(append(base, opts...)...)
}

// Project returns the project name and id the client is scoped to.
func (c *Client) Project() (string, int) {
	s := c.rest.Session()
	return s.ProjectName, s.ProjectID
}

// OpenSearch returns the OpenSearch configuration service.
func (c *Client) OpenSearch() *OpenSearchService {
	return &OpenSearchService{
		vars:    c.vars,
		tokens:  c.tokens,
		session: c.rest.Session(),
		obs:     c.obs,
	}
}

// Models returns the model registry service for a given registry.
func (c *Client) Models(registryID int) *ModelService {
	return &ModelService{
		api:        modelrepo.New(c.rest, registryID),
		registryID: registryID,
		obs:        c.obs,
	}
}

// FeatureGroup returns the expectation suite service for a feature group.
func (c *Client) FeatureGroup(featureStoreID, featureGroupID int) *FeatureGroupService {
	return &FeatureGroupService{
		featureStoreID: featureStoreID,
		featureGroupID: featureGroupID,
		suites:         suiterepo.New(c.rest, featureStoreID, featureGroupID),
		expFactory: func(suiteID int) expectationAPI {
			return expectationrepo.New(c.rest, featureStoreID, featureGroupID, suiteID)
		},
		converter: c.converter,
		obs:       c.obs,
	}
}

// SuiteFromNative converts a validation framework's native suite into an
// unattached ExpectationSuite. Fails with ErrConverterNotConfigured when
// no converter is registered.
func (c *Client) SuiteFromNative(native any) (*ExpectationSuite, error) {
	if c.converter == nil {
		return nil, domain.ErrConverterNotConfigured
	}
	suite, ok := c.converter.FromNativeSuite(native)
	if !ok {
		return nil, domain.NewUnsupportedExpectation(native)
	}
	suite.converter = c.converter
	return suite, nil
}
