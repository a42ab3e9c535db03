package hopsworks

import (
	"context"
	"net/url"

	"github.com/logicalclocks/hopsworks-go/internal/dto"
)

// --- suiteAPI mock ---

type mockSuiteAPI struct {
	saveFn           func(ctx context.Context, suite dto.ExpectationSuite) (dto.ExpectationSuite, error)
	getFn            func(ctx context.Context) (*dto.ExpectationSuite, error)
	deleteFn         func(ctx context.Context) error
	updateMetadataFn func(ctx context.Context, suite dto.ExpectationSuite) (dto.ExpectationSuite, error)

	updateMetadataCalls int
}

func (m *mockSuiteAPI) Save(ctx context.Context, suite dto.ExpectationSuite) (dto.ExpectationSuite, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, suite)
	}
	return suite, nil
}

func (m *mockSuiteAPI) Get(ctx context.Context) (*dto.ExpectationSuite, error) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	return nil, nil
}

func (m *mockSuiteAPI) Delete(ctx context.Context) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx)
	}
	return nil
}

func (m *mockSuiteAPI) UpdateMetadata(ctx context.Context, suite dto.ExpectationSuite) (dto.ExpectationSuite, error) {
	m.updateMetadataCalls++
	if m.updateMetadataFn != nil {
		return m.updateMetadataFn(ctx, suite)
	}
	return suite, nil
}

// --- expectationAPI mock ---

type mockExpectationAPI struct {
	getFn    func(ctx context.Context, id int) (dto.Expectation, error)
	createFn func(ctx context.Context, e dto.Expectation) (dto.Expectation, error)
	updateFn func(ctx context.Context, e dto.Expectation) (dto.Expectation, error)
	deleteFn func(ctx context.Context, id int) error
	listFn   func(ctx context.Context) ([]dto.Expectation, error)

	calls int
}

func (m *mockExpectationAPI) Get(ctx context.Context, id int) (dto.Expectation, error) {
	m.calls++
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return dto.Expectation{}, nil
}

func (m *mockExpectationAPI) Create(ctx context.Context, e dto.Expectation) (dto.Expectation, error) {
	m.calls++
	if m.createFn != nil {
		return m.createFn(ctx, e)
	}
	return e, nil
}

func (m *mockExpectationAPI) Update(ctx context.Context, e dto.Expectation) (dto.Expectation, error) {
	m.calls++
	if m.updateFn != nil {
		return m.updateFn(ctx, e)
	}
	return e, nil
}

func (m *mockExpectationAPI) Delete(ctx context.Context, id int) error {
	m.calls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockExpectationAPI) List(ctx context.Context) ([]dto.Expectation, error) {
	m.calls++
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// --- modelAPI mock ---

type mockModelAPI struct {
	putFn             func(ctx context.Context, m dto.Model, query url.Values) (dto.Model, error)
	getFn             func(ctx context.Context, name string, version int) (*dto.Model, error)
	listFn            func(ctx context.Context, name, metric, direction string) ([]dto.Model, error)
	deleteFn          func(ctx context.Context, id string) error
	setTagFn          func(ctx context.Context, modelID, name string, value any) error
	deleteTagFn       func(ctx context.Context, modelID, name string) error
	tagsFn            func(ctx context.Context, modelID string) (map[string]any, error)
	tagFn             func(ctx context.Context, modelID, name string) (any, error)
	provenanceLinksFn func(ctx context.Context, modelID string, upstreamLevels int) (dto.ProvenanceLinks, error)
}

func (m *mockModelAPI) Put(ctx context.Context, d dto.Model, query url.Values) (dto.Model, error) {
	if m.putFn != nil {
		return m.putFn(ctx, d, query)
	}
	return d, nil
}

func (m *mockModelAPI) Get(ctx context.Context, name string, version int) (*dto.Model, error) {
	if m.getFn != nil {
		return m.getFn(ctx, name, version)
	}
	return nil, nil
}

func (m *mockModelAPI) List(ctx context.Context, name, metric, direction string) ([]dto.Model, error) {
	if m.listFn != nil {
		return m.listFn(ctx, name, metric, direction)
	}
	return nil, nil
}

func (m *mockModelAPI) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockModelAPI) SetTag(ctx context.Context, modelID, name string, value any) error {
	if m.setTagFn != nil {
		return m.setTagFn(ctx, modelID, name, value)
	}
	return nil
}

func (m *mockModelAPI) DeleteTag(ctx context.Context, modelID, name string) error {
	if m.deleteTagFn != nil {
		return m.deleteTagFn(ctx, modelID, name)
	}
	return nil
}

func (m *mockModelAPI) Tags(ctx context.Context, modelID string) (map[string]any, error) {
	if m.tagsFn != nil {
		return m.tagsFn(ctx, modelID)
	}
	return map[string]any{}, nil
}

func (m *mockModelAPI) Tag(ctx context.Context, modelID, name string) (any, error) {
	if m.tagFn != nil {
		return m.tagFn(ctx, modelID, name)
	}
	return nil, nil
}

func (m *mockModelAPI) ProvenanceLinks(ctx context.Context, modelID string, upstreamLevels int) (dto.ProvenanceLinks, error) {
	if m.provenanceLinksFn != nil {
		return m.provenanceLinksFn(ctx, modelID, upstreamLevels)
	}
	return dto.ProvenanceLinks{}, nil
}

// --- variablesAPI / tokenAPI mocks ---

type mockVariablesAPI struct {
	sdFn func(ctx context.Context) (string, error)
	lbFn func(ctx context.Context, service string) (string, error)
}

func (m *mockVariablesAPI) ServiceDiscoveryDomain(ctx context.Context) (string, error) {
	if m.sdFn != nil {
		return m.sdFn(ctx)
	}
	return "", nil
}

func (m *mockVariablesAPI) LoadBalancerExternalDomain(ctx context.Context, service string) (string, error) {
	if m.lbFn != nil {
		return m.lbFn(ctx, service)
	}
	return "", nil
}

type mockTokenAPI struct {
	tokenFn func(ctx context.Context) (string, error)
	calls   int
}

func (m *mockTokenAPI) AuthorizationToken(ctx context.Context) (string, error) {
	m.calls++
	if m.tokenFn != nil {
		return m.tokenFn(ctx)
	}
	return "jwt-token", nil
}

// --- ExpectationConverter mock ---

// nativeExpectation stands in for a validation framework's expectation type.
type nativeExpectation struct {
	Type   string
	Kwargs map[string]any
}

// nativeSuite stands in for a validation framework's suite type.
type nativeSuite struct {
	Name         string
	Expectations []nativeExpectation
}

type mockConverter struct{}

func (mockConverter) FromNativeExpectation(native any) (Expectation, bool) {
	n, ok := native.(nativeExpectation)
	if !ok {
		return Expectation{}, false
	}
	return Expectation{ExpectationType: n.Type, Kwargs: n.Kwargs, Meta: map[string]any{}}, true
}

func (mockConverter) ToNativeExpectation(e Expectation) (any, error) {
	return nativeExpectation{Type: e.ExpectationType, Kwargs: e.Kwargs}, nil
}

func (c mockConverter) FromNativeSuite(native any) (*ExpectationSuite, bool) {
	n, ok := native.(nativeSuite)
	if !ok {
		return nil, false
	}
	inputs := make([]any, len(n.Expectations))
	for i, e := range n.Expectations {
		inputs[i] = e
	}
	suite, err := NewExpectationSuite(n.Name, nil, nil)
	if err != nil {
		return nil, false
	}
	suite.converter = c
	if err := suite.SetExpectations(inputs); err != nil {
		return nil, false
	}
	return suite, true
}

func (c mockConverter) ToNativeSuite(s *ExpectationSuite) (any, error) {
	n := nativeSuite{Name: s.Name()}
	for _, e := range s.Expectations() {
		n.Expectations = append(n.Expectations, nativeExpectation{Type: e.ExpectationType, Kwargs: e.Kwargs})
	}
	return n, nil
}
