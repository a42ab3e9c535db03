package hopsworks

import (
	"context"
	"fmt"
	"time"

	"github.com/logicalclocks/hopsworks-go/internal/dto"
)

// FeatureGroupService manages the expectation suite of one feature group.
// Suites returned by it are attached: their single-expectation API and
// metadata updates go straight to the backend.
type FeatureGroupService struct {
	featureStoreID int
	featureGroupID int

	suites     suiteAPI
	expFactory func(suiteID int) expectationAPI
	converter  ExpectationConverter
	obs        *observer
}

// SaveExpectationSuite creates or replaces the feature group's expectation
// suite and returns the attached result.
func (s *FeatureGroupService) SaveExpectationSuite(ctx context.Context, suite *ExpectationSuite) (_ *ExpectationSuite, err error) {
	start := time.Now()
	defer func() { s.obs.observe("suite.save", start, err) }()

	d, err := suite.toDTO()
	if err != nil {
		return nil, fmt.Errorf("save expectation suite: %w", err)
	}
	d.FeatureStoreID = &s.featureStoreID
	d.FeatureGroupID = &s.featureGroupID

	saved, err := s.suites.Save(ctx, d)
	if err != nil {
		return nil, err
	}
	return s.wire(saved)
}

// GetExpectationSuite fetches the feature group's expectation suite.
// Returns nil when the feature group has none.
func (s *FeatureGroupService) GetExpectationSuite(ctx context.Context) (_ *ExpectationSuite, err error) {
	start := time.Now()
	defer func() { s.obs.observe("suite.get", start, err) }()

	d, err := s.suites.Get(ctx)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	return s.wire(*d)
}

// DeleteExpectationSuite removes the feature group's expectation suite.
func (s *FeatureGroupService) DeleteExpectationSuite(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("suite.delete", start, err) }()

	return s.suites.Delete(ctx)
}

// wire builds an attached suite from a backend response.
func (s *FeatureGroupService) wire(d dto.ExpectationSuite) (*ExpectationSuite, error) {
	suite, err := suiteFromDTO(d)
	if err != nil {
		return nil, err
	}
	if suite.featureStoreID == nil {
		suite.featureStoreID = &s.featureStoreID
	}
	if suite.featureGroupID == nil {
		suite.featureGroupID = &s.featureGroupID
	}
	if suite.id == nil {
		return nil, fmt.Errorf("backend returned a suite without an id")
	}
	if err := suite.attach(s.suites, s.expFactory(*suite.id), s.converter, s.obs); err != nil {
		return nil, err
	}
	return suite, nil
}
