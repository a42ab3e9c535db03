package hopsworks

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/logicalclocks/hopsworks-go/internal/dto"
)

// Provenance artifact types reported by the backend.
const (
	artifactFeatureView     = "FEATURE_VIEW"
	artifactTrainingDataset = "TRAINING_DATASET"
)

// modelAPI is the internal interface for model registry endpoints.
type modelAPI interface {
	Put(ctx context.Context, m dto.Model, query url.Values) (dto.Model, error)
	Get(ctx context.Context, name string, version int) (*dto.Model, error)
	List(ctx context.Context, name, metric, direction string) ([]dto.Model, error)
	Delete(ctx context.Context, id string) error
	SetTag(ctx context.Context, modelID, name string, value any) error
	DeleteTag(ctx context.Context, modelID, name string) error
	Tags(ctx context.Context, modelID string) (map[string]any, error)
	Tag(ctx context.Context, modelID, name string) (any, error)
	ProvenanceLinks(ctx context.Context, modelID string, upstreamLevels int) (dto.ProvenanceLinks, error)
}

// Model is a registered model version. The backend identifies it by
// "{name}_{version}".
type Model struct {
	ID                        string
	Name                      string
	Version                   int
	ModelRegistryID           int
	SharedRegistryProjectName string
	ProjectName               string
	Description               string
	Framework                 string
	Metrics                   map[string]float64
	TrainingDatasetVersion    int
	FeatureViewName           string
	FeatureViewVersion        int
	Program                   string
	EnvironmentPath           string
	ModelPath                 string
	Created                   int64
	Creator                   string
}

// ProvenanceArtifact identifies one feature-store artifact reachable in
// the provenance graph.
type ProvenanceArtifact struct {
	Name        string
	Version     int
	ProjectName string
}

// ProvenanceLinks groups the upstream artifacts of a model by their
// accessibility. Deleted and inaccessible artifacts carry minimal
// information only.
type ProvenanceLinks struct {
	Accessible   []ProvenanceArtifact
	Deleted      []ProvenanceArtifact
	Inaccessible []ProvenanceArtifact
}

// Empty reports whether no artifact of the requested type was found.
func (l *ProvenanceLinks) Empty() bool {
	return len(l.Accessible) == 0 && len(l.Deleted) == 0 && len(l.Inaccessible) == 0
}

// ModelService is a stateless facade over the model registry endpoints of
// one registry.
type ModelService struct {
	api           modelAPI
	registryID    int
	sharedProject string
	obs           *observer
}

// SharedWith returns a ModelService reading from a registry shared by
// another project. Returned models carry the sharing project's name.
func (s *ModelService) SharedWith(projectName string) *ModelService {
	return &ModelService{
		api:           s.api,
		registryID:    s.registryID,
		sharedProject: projectName,
		obs:           s.obs,
	}
}

// Put upserts a model keyed by name and version. The backend response
// replaces every local field.
func (s *ModelService) Put(ctx context.Context, m *Model, query url.Values) (_ *Model, err error) {
	start := time.Now()
	defer func() { s.obs.observe("model.put", start, err) }()

	saved, err := s.api.Put(ctx, s.toDTO(m), query)
	if err != nil {
		return nil, err
	}
	return s.fromDTO(saved), nil
}

// Get fetches a model by name and version. Returns nil when the backend
// reports not-found; any other error propagates.
func (s *ModelService) Get(ctx context.Context, name string, version int) (_ *Model, err error) {
	start := time.Now()
	defer func() { s.obs.observe("model.get", start, err) }()

	d, err := s.api.Get(ctx, name, version)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	return s.fromDTO(*d), nil
}

// List fetches all versions of a model by name.
func (s *ModelService) List(ctx context.Context, name string) (_ []*Model, err error) {
	start := time.Now()
	defer func() { s.obs.observe("model.list", start, err) }()

	return s.list(ctx, name, "", "")
}

// Best fetches the best version of a model by a training metric. The sort
// happens server side: direction "max" requests descending order, "min"
// ascending, and the result is limited to one model. Returns nil when no
// version matches.
func (s *ModelService) Best(ctx context.Context, name, metric, direction string) (_ *Model, err error) {
	start := time.Now()
	defer func() { s.obs.observe("model.best", start, err) }()

	models, err := s.list(ctx, name, metric, direction)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	return models[0], nil
}

func (s *ModelService) list(ctx context.Context, name, metric, direction string) ([]*Model, error) {
	dtos, err := s.api.List(ctx, name, metric, direction)
	if err != nil {
		return nil, err
	}
	models := make([]*Model, len(dtos))
	for i, d := range dtos {
		models[i] = s.fromDTO(d)
	}
	return models, nil
}

// Delete removes a model and its metadata. A not-found error is not
// swallowed; callers deleting idempotently must tolerate it themselves.
func (s *ModelService) Delete(ctx context.Context, m *Model) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("model.delete", start, err) }()

	return s.api.Delete(ctx, modelID(m))
}

// SetTag attaches a name/value tag to a model. The value may be a string
// or any JSON-encodable structure; it is stored as JSON text either way.
func (s *ModelService) SetTag(ctx context.Context, m *Model, name string, value any) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("model.set_tag", start, err) }()

	return s.api.SetTag(ctx, modelID(m), name, value)
}

// DeleteTag removes a tag from a model.
func (s *ModelService) DeleteTag(ctx context.Context, m *Model, name string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("model.delete_tag", start, err) }()

	return s.api.DeleteTag(ctx, modelID(m), name)
}

// Tags returns all tags of a model with JSON-decoded values. A model
// without tags yields an empty map.
func (s *ModelService) Tags(ctx context.Context, m *Model) (_ map[string]any, err error) {
	start := time.Now()
	defer func() { s.obs.observe("model.tags", start, err) }()

	return s.api.Tags(ctx, modelID(m))
}

// Tag returns one tag value, or nil when the tag does not exist.
func (s *ModelService) Tag(ctx context.Context, m *Model, name string) (_ any, err error) {
	start := time.Now()
	defer func() { s.obs.observe("model.tag", start, err) }()

	return s.api.Tag(ctx, modelID(m), name)
}

// FeatureViewProvenance returns the feature view this model was trained
// from, walking the provenance graph two hops upstream. Returns nil when
// the model has no feature view parent; deleted or inaccessible parents
// still count as present.
func (s *ModelService) FeatureViewProvenance(ctx context.Context, m *Model) (_ *ProvenanceLinks, err error) {
	start := time.Now()
	defer func() { s.obs.observe("model.feature_view_provenance", start, err) }()

	return s.provenance(ctx, m, 2, artifactFeatureView)
}

// TrainingDatasetProvenance returns the training dataset this model was
// trained from, one hop upstream. Returns nil when the model has no
// training dataset parent.
func (s *ModelService) TrainingDatasetProvenance(ctx context.Context, m *Model) (_ *ProvenanceLinks, err error) {
	start := time.Now()
	defer func() { s.obs.observe("model.training_dataset_provenance", start, err) }()

	return s.provenance(ctx, m, 1, artifactTrainingDataset)
}

func (s *ModelService) provenance(ctx context.Context, m *Model, upstreamLevels int, artifactType string) (*ProvenanceLinks, error) {
	raw, err := s.api.ProvenanceLinks(ctx, modelID(m), upstreamLevels)
	if err != nil {
		return nil, err
	}
	links := collectUpstream(raw.Items, upstreamLevels, artifactType)
	if links.Empty() {
		return nil, nil
	}
	return links, nil
}

// collectUpstream walks the upstream edges of the provenance graph up to
// the requested depth and keeps artifacts of one type, grouped by
// accessibility.
func collectUpstream(items []dto.ProvenanceLink, depth int, artifactType string) *ProvenanceLinks {
	links := &ProvenanceLinks{}
	var walk func(items []dto.ProvenanceLink, remaining int)
	walk = func(items []dto.ProvenanceLink, remaining int) {
		if remaining == 0 {
			return
		}
		for _, item := range items {
			if item.Node.ArtifactType == artifactType {
				artifact := ProvenanceArtifact{
					Name:        item.Node.Name,
					Version:     item.Node.Version,
					ProjectName: item.Node.ProjectName,
				}
				switch {
				case item.Node.Deleted:
					links.Deleted = append(links.Deleted, artifact)
				case !item.Node.Accessible:
					links.Inaccessible = append(links.Inaccessible, artifact)
				default:
					links.Accessible = append(links.Accessible, artifact)
				}
			}
			walk(item.Upstream, remaining-1)
		}
	}
	walk(items, depth)
	return links
}

func modelID(m *Model) string {
	if m.ID != "" {
		return m.ID
	}
	return m.Name + "_" + strconv.Itoa(m.Version)
}

func (s *ModelService) toDTO(m *Model) dto.Model {
	return dto.Model{
		ID:                     m.ID,
		Name:                   m.Name,
		Version:                m.Version,
		ModelRegistryID:        s.registryID,
		ProjectName:            m.ProjectName,
		Description:            m.Description,
		Framework:              m.Framework,
		Metrics:                m.Metrics,
		TrainingDatasetVersion: m.TrainingDatasetVersion,
		FeatureViewName:        m.FeatureViewName,
		FeatureViewVersion:     m.FeatureViewVersion,
		Program:                m.Program,
		EnvironmentPath:        m.EnvironmentPath,
		ModelPath:              m.ModelPath,
		Created:                m.Created,
		Creator:                m.Creator,
	}
}

func (s *ModelService) fromDTO(d dto.Model) *Model {
	id := d.ID
	if id == "" {
		id = d.Name + "_" + strconv.Itoa(d.Version)
	}
	registryID := d.ModelRegistryID
	if registryID == 0 {
		registryID = s.registryID
	}
	return &Model{
		ID:                        id,
		Name:                      d.Name,
		Version:                   d.Version,
		ModelRegistryID:           registryID,
		SharedRegistryProjectName: s.sharedProject,
		ProjectName:               d.ProjectName,
		Description:               d.Description,
		Framework:                 d.Framework,
		Metrics:                   d.Metrics,
		TrainingDatasetVersion:    d.TrainingDatasetVersion,
		FeatureViewName:           d.FeatureViewName,
		FeatureViewVersion:        d.FeatureViewVersion,
		Program:                   d.Program,
		EnvironmentPath:           d.EnvironmentPath,
		ModelPath:                 d.ModelPath,
		Created:                   d.Created,
		Creator:                   d.Creator,
	}
}
