package hopsworks

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/logicalclocks/hopsworks-go/internal/dto"
)

func newModelService(api modelAPI) *ModelService {
	return &ModelService{api: api, registryID: 119}
}

func TestModelGetNotFoundReturnsNil(t *testing.T) {
	svc := newModelService(&mockModelAPI{
		getFn: func(context.Context, string, int) (*dto.Model, error) {
			return nil, nil
		},
	})
	m, err := svc.Get(context.Background(), "fraud", 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m != nil {
		t.Errorf("model = %+v, want nil for missing version", m)
	}
}

func TestModelGetPropagatesErrors(t *testing.T) {
	boom := errors.New("backend down")
	svc := newModelService(&mockModelAPI{
		getFn: func(context.Context, string, int) (*dto.Model, error) {
			return nil, boom
		},
	})
	if _, err := svc.Get(context.Background(), "fraud", 1); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped backend error", err)
	}
}

func TestModelGetComputesID(t *testing.T) {
	svc := newModelService(&mockModelAPI{
		getFn: func(context.Context, string, int) (*dto.Model, error) {
			return &dto.Model{Name: "fraud", Version: 2}, nil
		},
	})
	m, err := svc.Get(context.Background(), "fraud", 2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m.ID != "fraud_2" {
		t.Errorf("id = %q, want fraud_2", m.ID)
	}
	if m.ModelRegistryID != 119 {
		t.Errorf("registry id = %d, want 119 inherited from service", m.ModelRegistryID)
	}
}

func TestModelBestPassesMetricAndDirection(t *testing.T) {
	var gotMetric, gotDirection string
	svc := newModelService(&mockModelAPI{
		listFn: func(_ context.Context, _, metric, direction string) ([]dto.Model, error) {
			gotMetric, gotDirection = metric, direction
			return []dto.Model{{Name: "fraud", Version: 4, Metrics: map[string]float64{"accuracy": 0.97}}}, nil
		},
	})
	best, err := svc.Best(context.Background(), "fraud", "accuracy", "max")
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	if gotMetric != "accuracy" || gotDirection != "max" {
		t.Errorf("list called with metric=%q direction=%q", gotMetric, gotDirection)
	}
	if best == nil || best.Version != 4 {
		t.Fatalf("best = %+v, want version 4", best)
	}
}

func TestModelBestReturnsNilWhenNoVersions(t *testing.T) {
	svc := newModelService(&mockModelAPI{
		listFn: func(context.Context, string, string, string) ([]dto.Model, error) {
			return nil, nil
		},
	})
	best, err := svc.Best(context.Background(), "fraud", "accuracy", "max")
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	if best != nil {
		t.Errorf("best = %+v, want nil", best)
	}
}

func TestModelDeleteUsesComputedID(t *testing.T) {
	var deleted string
	svc := newModelService(&mockModelAPI{
		deleteFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	})
	if err := svc.Delete(context.Background(), &Model{Name: "fraud", Version: 3}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted != "fraud_3" {
		t.Errorf("deleted id = %q, want fraud_3", deleted)
	}
}

func TestModelSharedWithStampsProjectName(t *testing.T) {
	svc := newModelService(&mockModelAPI{
		getFn: func(context.Context, string, int) (*dto.Model, error) {
			return &dto.Model{Name: "fraud", Version: 1}, nil
		},
	}).SharedWith("bank_project")

	m, err := svc.Get(context.Background(), "fraud", 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m.SharedRegistryProjectName != "bank_project" {
		t.Errorf("shared project = %q, want bank_project", m.SharedRegistryProjectName)
	}
}

func provenanceFixture() dto.ProvenanceLinks {
	return dto.ProvenanceLinks{
		Items: []dto.ProvenanceLink{
			{
				Node: dto.ProvenanceNode{ArtifactType: artifactTrainingDataset, Name: "fraud_td", Version: 1, Accessible: true},
				Upstream: []dto.ProvenanceLink{
					{Node: dto.ProvenanceNode{ArtifactType: artifactFeatureView, Name: "fraud_fv", Version: 2, ProjectName: "demo", Accessible: true}},
					{Node: dto.ProvenanceNode{ArtifactType: artifactFeatureView, Name: "old_fv", Version: 1, Deleted: true}},
					{Node: dto.ProvenanceNode{ArtifactType: artifactFeatureView, Name: "secret_fv", Version: 1, Accessible: false}},
				},
			},
		},
	}
}

func TestFeatureViewProvenanceWalksTwoLevels(t *testing.T) {
	var gotLevels int
	svc := newModelService(&mockModelAPI{
		provenanceLinksFn: func(_ context.Context, _ string, upstreamLevels int) (dto.ProvenanceLinks, error) {
			gotLevels = upstreamLevels
			return provenanceFixture(), nil
		},
	})

	links, err := svc.FeatureViewProvenance(context.Background(), &Model{Name: "fraud", Version: 1})
	if err != nil {
		t.Fatalf("FeatureViewProvenance: %v", err)
	}
	if gotLevels != 2 {
		t.Errorf("upstream levels = %d, want 2", gotLevels)
	}
	if len(links.Accessible) != 1 || links.Accessible[0].Name != "fraud_fv" {
		t.Errorf("accessible = %+v", links.Accessible)
	}
	if len(links.Deleted) != 1 || links.Deleted[0].Name != "old_fv" {
		t.Errorf("deleted = %+v", links.Deleted)
	}
	if len(links.Inaccessible) != 1 || links.Inaccessible[0].Name != "secret_fv" {
		t.Errorf("inaccessible = %+v", links.Inaccessible)
	}
}

func TestTrainingDatasetProvenanceStopsAtOneLevel(t *testing.T) {
	var gotLevels int
	svc := newModelService(&mockModelAPI{
		provenanceLinksFn: func(_ context.Context, _ string, upstreamLevels int) (dto.ProvenanceLinks, error) {
			gotLevels = upstreamLevels
			return provenanceFixture(), nil
		},
	})

	links, err := svc.TrainingDatasetProvenance(context.Background(), &Model{Name: "fraud", Version: 1})
	if err != nil {
		t.Fatalf("TrainingDatasetProvenance: %v", err)
	}
	if gotLevels != 1 {
		t.Errorf("upstream levels = %d, want 1", gotLevels)
	}
	if len(links.Accessible) != 1 || links.Accessible[0].Name != "fraud_td" {
		t.Errorf("accessible = %+v", links.Accessible)
	}
	// the feature views live one level deeper and must not leak in
	if len(links.Deleted) != 0 || len(links.Inaccessible) != 0 {
		t.Errorf("deleted=%+v inaccessible=%+v, want none at depth 1", links.Deleted, links.Inaccessible)
	}
}

func TestProvenanceNilWhenEmpty(t *testing.T) {
	svc := newModelService(&mockModelAPI{
		provenanceLinksFn: func(context.Context, string, int) (dto.ProvenanceLinks, error) {
			return dto.ProvenanceLinks{}, nil
		},
	})
	links, err := svc.FeatureViewProvenance(context.Background(), &Model{Name: "fraud", Version: 1})
	if err != nil {
		t.Fatalf("FeatureViewProvenance: %v", err)
	}
	if links != nil {
		t.Errorf("links = %+v, want nil when the graph has no matching artifact", links)
	}
}

func TestModelPutStampsRegistryID(t *testing.T) {
	var sent dto.Model
	svc := newModelService(&mockModelAPI{
		putFn: func(_ context.Context, d dto.Model, _ url.Values) (dto.Model, error) {
			sent = d
			return d, nil
		},
	})
	_, err := svc.Put(context.Background(), &Model{Name: "fraud", Version: 1}, nil)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if sent.ModelRegistryID != 119 {
		t.Errorf("sent registry id = %d, want 119", sent.ModelRegistryID)
	}
}
