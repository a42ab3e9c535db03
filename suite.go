package hopsworks

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/logicalclocks/hopsworks-go/internal/domain"
	"github.com/logicalclocks/hopsworks-go/internal/dto"
	"github.com/logicalclocks/hopsworks-go/internal/keycase"
)

// IngestionPolicy controls whether data is ingested when validation fails.
type IngestionPolicy string

// Ingestion policy constants.
const (
	// IngestionPolicyAlways ingests data even if expectations fail.
	IngestionPolicyAlways IngestionPolicy = "ALWAYS"
	// IngestionPolicyStrict ingests data only if all expectations succeed.
	IngestionPolicyStrict IngestionPolicy = "STRICT"
)

// parsePolicy normalizes a policy to upper case and validates it.
func parsePolicy(policy string) (IngestionPolicy, error) {
	switch p := IngestionPolicy(strings.ToUpper(policy)); p {
	case IngestionPolicyAlways, IngestionPolicyStrict:
		return p, nil
	default:
		return "", fmt.Errorf("validation ingestion policy must be \"ALWAYS\" or \"STRICT\", got %q", policy)
	}
}

// suiteAPI is the internal interface for suite-level endpoints.
type suiteAPI interface {
	Save(ctx context.Context, suite dto.ExpectationSuite) (dto.ExpectationSuite, error)
	Get(ctx context.Context) (*dto.ExpectationSuite, error)
	Delete(ctx context.Context) error
	UpdateMetadata(ctx context.Context, suite dto.ExpectationSuite) (dto.ExpectationSuite, error)
}

// expectationAPI is the internal interface for single-expectation endpoints.
type expectationAPI interface {
	Get(ctx context.Context, id int) (dto.Expectation, error)
	Create(ctx context.Context, e dto.Expectation) (dto.Expectation, error)
	Update(ctx context.Context, e dto.Expectation) (dto.Expectation, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]dto.Expectation, error)
}

// ExpectationSuite is a named collection of validation rules. A suite
// starts unattached (a pure local container); saving it to a feature group
// attaches it, and from then on every mutation is mirrored to the backend.
// There is no way back to the unattached state.
type ExpectationSuite struct {
	id             *int
	featureStoreID *int
	featureGroupID *int

	name          string
	expectations  []Expectation
	meta          map[string]any
	geCloudID     string
	dataAssetType string
	runValidation bool
	policy        IngestionPolicy

	// set on attachment
	suites suiteAPI
	exps   expectationAPI

	converter ExpectationConverter
	obs       *observer
}

// SuiteOption configures a new ExpectationSuite.
type SuiteOption interface {
	applySuite(*suiteParams)
}

type suiteOptionFunc func(*suiteParams)

func (f suiteOptionFunc) applySuite(p *suiteParams) { f(p) }

type suiteParams struct {
	runValidation bool
	policy        string
}

// WithRunValidation controls whether the suite runs on ingestion.
// Defaults to true.
func WithRunValidation(run bool) SuiteOption {
	return suiteOptionFunc(func(p *suiteParams) {
		p.runValidation = run
	})
}

// WithValidationIngestionPolicy sets the ingestion policy, "always" or
// "strict" (case insensitive). Defaults to "always".
func WithValidationIngestionPolicy(policy string) SuiteOption {
	return suiteOptionFunc(func(p *suiteParams) {
		p.policy = policy
	})
}

// NewExpectationSuite creates an unattached suite. Each expectation may be
// an Expectation, a generic map, or a framework-native object when a
// converter is registered on the client used to save it; unsupported inputs
// fail with a type error. Unattached suites never touch the network.
func NewExpectationSuite(name string, expectations []any, meta map[string]any, opts ...SuiteOption) (*ExpectationSuite, error) {
	params := &suiteParams{runValidation: true, policy: string(IngestionPolicyAlways)}
	for _, o := range opts {
		o.applySuite(params)
	}
	policy, err := parsePolicy(params.policy)
	if err != nil {
		return nil, err
	}

	s := &ExpectationSuite{
		name:          name,
		meta:          orEmptyDict(meta),
		runValidation: params.runValidation,
		policy:        policy,
	}
	if err := s.SetExpectations(expectations); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the backend-assigned suite id. ok is false until the suite is
// registered.
func (s *ExpectationSuite) ID() (int, bool) {
	if s.id == nil {
		return 0, false
	}
	return *s.id, true
}

// FeatureStoreID returns the parent feature store id, if set.
func (s *ExpectationSuite) FeatureStoreID() (int, bool) {
	if s.featureStoreID == nil {
		return 0, false
	}
	return *s.featureStoreID, true
}

// FeatureGroupID returns the parent feature group id, if set.
func (s *ExpectationSuite) FeatureGroupID() (int, bool) {
	if s.featureGroupID == nil {
		return 0, false
	}
	return *s.featureGroupID, true
}

// Name returns the suite name.
func (s *ExpectationSuite) Name() string { return s.name }

// Expectations returns the local expectation list.
func (s *ExpectationSuite) Expectations() []Expectation { return s.expectations }

// Meta returns the suite meta field.
func (s *ExpectationSuite) Meta() map[string]any { return s.meta }

// RunValidation reports whether the suite runs on ingestion.
func (s *ExpectationSuite) RunValidation() bool { return s.runValidation }

// ValidationIngestionPolicy returns the suite ingestion policy.
func (s *ExpectationSuite) ValidationIngestionPolicy() IngestionPolicy { return s.policy }

// Attached reports whether the suite is bound to a feature group on the
// backend.
func (s *ExpectationSuite) Attached() bool {
	return s.id != nil && s.suites != nil && s.exps != nil
}

// attach wires the backend engines into the suite. Requires the backend id
// and both parent ids.
func (s *ExpectationSuite) attach(suites suiteAPI, exps expectationAPI, conv ExpectationConverter, obs *observer) error {
	if s.id == nil {
		return domain.ErrSuiteNotRegistered
	}
	if s.featureStoreID == nil || s.featureGroupID == nil {
		return fmt.Errorf("suite %d has no parent feature store/group ids", *s.id)
	}
	s.suites = suites
	s.exps = exps
	s.converter = conv
	s.obs = obs
	return nil
}

// SetExpectations replaces the local expectation list wholesale. Inputs
// are normalized the same way as in NewExpectationSuite. No network call
// is made, even on an attached suite; use the single-expectation API to
// mutate a registered suite.
func (s *ExpectationSuite) SetExpectations(expectations []any) error {
	converted := make([]Expectation, len(expectations))
	for i, input := range expectations {
		e, err := convertExpectation(input, s.converter)
		if err != nil {
			return err
		}
		converted[i] = e
	}
	s.expectations = converted
	return nil
}

// GetExpectation fetches one expectation from the backend by id.
// Fails with ErrSuiteNotRegistered on an unattached suite.
func (s *ExpectationSuite) GetExpectation(ctx context.Context, id int) (_ Expectation, err error) {
	start := time.Now()
	defer func() { s.obs.observe("suite.get_expectation", start, err) }()

	if !s.Attached() {
		return Expectation{}, domain.ErrSuiteNotRegistered
	}
	d, err := s.exps.Get(ctx, id)
	if err != nil {
		return Expectation{}, err
	}
	return expectationFromDTO(d)
}

// AddExpectation registers a new expectation on the backend, then
// re-fetches the whole expectation list so the local copy cannot drift.
// Fails with ErrSuiteNotRegistered on an unattached suite.
func (s *ExpectationSuite) AddExpectation(ctx context.Context, expectation any) (_ Expectation, err error) {
	start := time.Now()
	defer func() { s.obs.observe("suite.add_expectation", start, err) }()

	if !s.Attached() {
		return Expectation{}, domain.ErrSuiteNotRegistered
	}
	converted, err := convertExpectation(expectation, s.converter)
	if err != nil {
		return Expectation{}, err
	}
	d, err := converted.toDTO()
	if err != nil {
		return Expectation{}, err
	}
	created, err := s.exps.Create(ctx, d)
	if err != nil {
		return Expectation{}, err
	}
	if err := s.refreshExpectations(ctx); err != nil {
		return Expectation{}, err
	}
	return expectationFromDTO(created)
}

// ReplaceExpectation updates an expectation on the backend, then
// re-fetches the whole expectation list. The expectation must carry an id,
// either directly or through its expectationId meta field.
// Fails with ErrSuiteNotRegistered on an unattached suite.
func (s *ExpectationSuite) ReplaceExpectation(ctx context.Context, expectation any) (_ Expectation, err error) {
	start := time.Now()
	defer func() { s.obs.observe("suite.replace_expectation", start, err) }()

	if !s.Attached() {
		return Expectation{}, domain.ErrSuiteNotRegistered
	}
	converted, err := convertExpectation(expectation, s.converter)
	if err != nil {
		return Expectation{}, err
	}
	if converted.ID == nil {
		id, ok := metaExpectationID(converted.Meta)
		if !ok {
			return Expectation{}, domain.ErrExpectationIDMissing
		}
		converted.ID = &id
	}
	d, err := converted.toDTO()
	if err != nil {
		return Expectation{}, err
	}
	updated, err := s.exps.Update(ctx, d)
	if err != nil {
		return Expectation{}, err
	}
	if err := s.refreshExpectations(ctx); err != nil {
		return Expectation{}, err
	}
	return expectationFromDTO(updated)
}

// RemoveExpectation deletes an expectation from the backend, then
// re-fetches the whole expectation list.
// Fails with ErrSuiteNotRegistered on an unattached suite.
func (s *ExpectationSuite) RemoveExpectation(ctx context.Context, id int) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("suite.remove_expectation", start, err) }()

	if !s.Attached() {
		return domain.ErrSuiteNotRegistered
	}
	if err := s.exps.Delete(ctx, id); err != nil {
		return err
	}
	return s.refreshExpectations(ctx)
}

// refreshExpectations replaces the local list with the backend's.
func (s *ExpectationSuite) refreshExpectations(ctx context.Context) error {
	dtos, err := s.exps.List(ctx)
	if err != nil {
		return err
	}
	fresh := make([]Expectation, len(dtos))
	for i, d := range dtos {
		if fresh[i], err = expectationFromDTO(d); err != nil {
			return err
		}
	}
	s.expectations = fresh
	return nil
}

// UpdateName renames the suite. On an attached suite this pushes one
// metadata update to the backend; on an unattached suite it is local only.
func (s *ExpectationSuite) UpdateName(ctx context.Context, name string) error {
	s.name = name
	return s.pushMetadata(ctx, "suite.update_name")
}

// UpdateRunValidation sets the run-on-ingestion flag, mirrored to the
// backend when attached.
func (s *ExpectationSuite) UpdateRunValidation(ctx context.Context, run bool) error {
	s.runValidation = run
	return s.pushMetadata(ctx, "suite.update_run_validation")
}

// UpdateValidationIngestionPolicy sets the ingestion policy ("always" or
// "strict", case insensitive), mirrored to the backend when attached.
func (s *ExpectationSuite) UpdateValidationIngestionPolicy(ctx context.Context, policy string) error {
	parsed, err := parsePolicy(policy)
	if err != nil {
		return err
	}
	s.policy = parsed
	return s.pushMetadata(ctx, "suite.update_policy")
}

// UpdateMeta sets the suite meta field from a map or stringified JSON,
// mirrored to the backend when attached.
func (s *ExpectationSuite) UpdateMeta(ctx context.Context, meta any) error {
	parsed, err := asDict(meta)
	if err != nil {
		return fmt.Errorf("meta field: %w", err)
	}
	s.meta = parsed
	return s.pushMetadata(ctx, "suite.update_meta")
}

// pushMetadata sends one metadata-only update for an attached suite and
// folds the response back into the local copy.
func (s *ExpectationSuite) pushMetadata(ctx context.Context, op string) (err error) {
	if !s.Attached() {
		return nil
	}
	start := time.Now()
	defer func() { s.obs.observe(op, start, err) }()

	d, err := s.toDTO()
	if err != nil {
		return err
	}
	updated, err := s.suites.UpdateMetadata(ctx, d)
	if err != nil {
		return err
	}
	s.id = updated.ID
	return nil
}

// ToNative converts the suite to the registered validation framework's
// native type. Fails with ErrConverterNotConfigured when no converter is
// registered.
func (s *ExpectationSuite) ToNative() (any, error) {
	if s.converter == nil {
		return nil, domain.ErrConverterNotConfigured
	}
	return s.converter.ToNativeSuite(s)
}

// ToDict serializes the suite in its wire shape: camelCase keys, meta and
// expectation kwargs/meta as stringified JSON.
func (s *ExpectationSuite) ToDict() (map[string]any, error) {
	meta, err := json.Marshal(orEmptyDict(s.meta))
	if err != nil {
		return nil, fmt.Errorf("encode meta: %w", err)
	}
	expectations := make([]any, len(s.expectations))
	for i, e := range s.expectations {
		d, err := e.toDTO()
		if err != nil {
			return nil, err
		}
		wire := map[string]any{
			"expectationType": d.ExpectationType,
			"kwargs":          d.Kwargs,
			"meta":            d.Meta,
		}
		if d.ID != nil {
			wire["id"] = *d.ID
		}
		expectations[i] = wire
	}

	dict := map[string]any{
		"id":                        nilOrInt(s.id),
		"featureStoreId":            nilOrInt(s.featureStoreID),
		"featureGroupId":            nilOrInt(s.featureGroupID),
		"expectationSuiteName":      s.name,
		"expectations":              expectations,
		"meta":                      string(meta),
		"geCloudId":                 s.geCloudID,
		"dataAssetType":             s.dataAssetType,
		"runValidation":             s.runValidation,
		"validationIngestionPolicy": string(s.policy),
	}
	return dict, nil
}

// JSONDict serializes the suite with nested meta. The key case applies to
// the field names only; meta and expectation kwargs keys stay verbatim.
func (s *ExpectationSuite) JSONDict(kc KeyCase) map[string]any {
	expectations := make([]any, len(s.expectations))
	for i, e := range s.expectations {
		expectations[i] = e.JSONDict(KeyCamel)
	}
	dict := map[string]any{
		"id":                        nilOrInt(s.id),
		"featureStoreId":            nilOrInt(s.featureStoreID),
		"featureGroupId":            nilOrInt(s.featureGroupID),
		"expectationSuiteName":      s.name,
		"expectations":              expectations,
		"meta":                      orEmptyDict(s.meta),
		"geCloudId":                 s.geCloudID,
		"dataAssetType":             s.dataAssetType,
		"runValidation":             s.runValidation,
		"validationIngestionPolicy": string(s.policy),
	}
	if kc == KeySnake {
		return keycase.ConvertKeysExcept(dict, keycase.ToSnake, "kwargs", "meta").(map[string]any)
	}
	return dict
}

// SuiteFromJSONDict reconstructs a suite from a dictionary produced by
// JSONDict, accepting either key case. Only field names are normalized;
// suite meta and per-expectation kwargs/meta keep their keys verbatim.
// The result is unattached.
func SuiteFromJSONDict(m map[string]any) (*ExpectationSuite, error) {
	camel := keycase.ConvertKeysExcept(m, keycase.ToCamel, "kwargs", "meta").(map[string]any)

	name, _ := camel["expectationSuiteName"].(string)
	policy := string(IngestionPolicyAlways)
	if p, ok := camel["validationIngestionPolicy"].(string); ok && p != "" {
		policy = p
	}
	runValidation := true
	if rv, ok := camel["runValidation"].(bool); ok {
		runValidation = rv
	}
	meta, err := asDict(camel["meta"])
	if err != nil {
		return nil, fmt.Errorf("suite meta: %w", err)
	}

	var expectations []any
	switch raw := camel["expectations"].(type) {
	case nil:
	case []any:
		expectations = raw
	default:
		return nil, fmt.Errorf("suite expectations must be a list, got %T", raw)
	}

	s, err := NewExpectationSuite(name, expectations, meta,
		WithRunValidation(runValidation),
		WithValidationIngestionPolicy(policy),
	)
	if err != nil {
		return nil, err
	}

	for key, target := range map[string]**int{
		"id":             &s.id,
		"featureStoreId": &s.featureStoreID,
		"featureGroupId": &s.featureGroupID,
	} {
		if raw, ok := camel[key]; ok && raw != nil {
			if id, ok := asInt(raw); ok {
				*target = &id
			}
		}
	}
	if v, ok := camel["geCloudId"].(string); ok {
		s.geCloudID = v
	}
	if v, ok := camel["dataAssetType"].(string); ok {
		s.dataAssetType = v
	}
	return s, nil
}

func (s *ExpectationSuite) toDTO() (dto.ExpectationSuite, error) {
	meta, err := json.Marshal(orEmptyDict(s.meta))
	if err != nil {
		return dto.ExpectationSuite{}, fmt.Errorf("encode meta: %w", err)
	}
	expectations := make([]dto.Expectation, len(s.expectations))
	for i, e := range s.expectations {
		if expectations[i], err = e.toDTO(); err != nil {
			return dto.ExpectationSuite{}, err
		}
	}
	return dto.ExpectationSuite{
		ID:                        s.id,
		FeatureStoreID:            s.featureStoreID,
		FeatureGroupID:            s.featureGroupID,
		ExpectationSuiteName:      s.name,
		Expectations:              expectations,
		Meta:                      string(meta),
		GeCloudID:                 s.geCloudID,
		DataAssetType:             s.dataAssetType,
		RunValidation:             s.runValidation,
		ValidationIngestionPolicy: string(s.policy),
	}, nil
}

// hrefIDs recovers parent ids from a backend href when the response omits
// the id fields.
var hrefIDs = regexp.MustCompile(`/featurestores/(\d+)/featuregroups/(\d+)/expectationsuite`)

func suiteFromDTO(d dto.ExpectationSuite) (*ExpectationSuite, error) {
	meta, err := asDict(d.Meta)
	if err != nil {
		return nil, fmt.Errorf("suite meta: %w", err)
	}
	expectations := make([]Expectation, len(d.Expectations))
	for i, e := range d.Expectations {
		if expectations[i], err = expectationFromDTO(e); err != nil {
			return nil, err
		}
	}
	policy := d.ValidationIngestionPolicy
	if policy == "" {
		policy = string(IngestionPolicyAlways)
	}
	parsed, err := parsePolicy(policy)
	if err != nil {
		return nil, err
	}

	s := &ExpectationSuite{
		id:             d.ID,
		featureStoreID: d.FeatureStoreID,
		featureGroupID: d.FeatureGroupID,
		name:           d.ExpectationSuiteName,
		expectations:   expectations,
		meta:           meta,
		geCloudID:      d.GeCloudID,
		dataAssetType:  d.DataAssetType,
		runValidation:  d.RunValidation,
		policy:         parsed,
	}

	if (s.featureStoreID == nil || s.featureGroupID == nil) && d.Href != "" {
		if m := hrefIDs.FindStringSubmatch(d.Href); m != nil {
			fs, _ := strconv.Atoi(m[1])
			fg, _ := strconv.Atoi(m[2])
			s.featureStoreID = &fs
			s.featureGroupID = &fg
		}
	}
	return s, nil
}

func nilOrInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
