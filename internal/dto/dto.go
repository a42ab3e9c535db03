// Package dto holds the wire representations exchanged with the backend.
// Field names follow the backend's camelCase convention.
package dto

// Envelope is the backend list response. Single-entity endpoints return the
// entity directly; collection endpoints wrap items with a count. A count of
// zero means "absent", not "empty list".
type Envelope[T any] struct {
	Count *int `json:"count,omitempty"`
	Items []T  `json:"items,omitempty"`
}

// Token is the elastic JWT response.
type Token struct {
	Token string `json:"token"`
}

// Variable is a cluster configuration variable response.
type Variable struct {
	SuccessMessage string `json:"successMessage"`
}

// Expectation is a single validation rule. Kwargs and Meta are stringified
// JSON on the wire.
type Expectation struct {
	ID              *int   `json:"id,omitempty"`
	ExpectationType string `json:"expectationType"`
	Kwargs          string `json:"kwargs"`
	Meta            string `json:"meta"`
	Href            string `json:"href,omitempty"`
}

// ExpectationSuite is a named collection of expectations. Meta is
// stringified JSON on the wire.
type ExpectationSuite struct {
	ID                        *int          `json:"id,omitempty"`
	FeatureStoreID            *int          `json:"featureStoreId,omitempty"`
	FeatureGroupID            *int          `json:"featureGroupId,omitempty"`
	ExpectationSuiteName      string        `json:"expectationSuiteName"`
	Expectations              []Expectation `json:"expectations"`
	Meta                      string        `json:"meta"`
	GeCloudID                 string        `json:"geCloudId,omitempty"`
	DataAssetType             string        `json:"dataAssetType,omitempty"`
	RunValidation             bool          `json:"runValidation"`
	ValidationIngestionPolicy string        `json:"validationIngestionPolicy"`
	Href                      string        `json:"href,omitempty"`
}

// Model is a registered model version. The backend id is "{name}_{version}".
type Model struct {
	ID                     string             `json:"id,omitempty"`
	Name                   string             `json:"name"`
	Version                int                `json:"version"`
	ModelRegistryID        int                `json:"modelRegistryId,omitempty"`
	ProjectName            string             `json:"projectName,omitempty"`
	Description            string             `json:"description,omitempty"`
	Framework              string             `json:"framework,omitempty"`
	Metrics                map[string]float64 `json:"metrics,omitempty"`
	TrainingDatasetVersion int                `json:"trainingDatasetVersion,omitempty"`
	FeatureViewName        string             `json:"featureViewName,omitempty"`
	FeatureViewVersion     int                `json:"featureViewVersion,omitempty"`
	Program                string             `json:"program,omitempty"`
	EnvironmentPath        string             `json:"environment,omitempty"`
	ModelPath              string             `json:"modelPath,omitempty"`
	Created                int64              `json:"created,omitempty"`
	Creator                string             `json:"creator,omitempty"`
	Href                   string             `json:"href,omitempty"`
}

// Tag is a name/value pair attached to a registry entity. Value is
// stringified JSON.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Href  string `json:"href,omitempty"`
}

// ProvenanceNode describes one artifact in a provenance graph. Deleted and
// inaccessible artifacts carry only minimal information.
type ProvenanceNode struct {
	ArtifactType string `json:"artifactType"`
	Name         string `json:"name,omitempty"`
	Version      int    `json:"version,omitempty"`
	ProjectName  string `json:"projectName,omitempty"`
	Accessible   bool   `json:"accessible"`
	Deleted      bool   `json:"deleted"`
}

// ProvenanceLink is one edge of the provenance graph, expanded up to the
// requested number of upstream/downstream levels.
type ProvenanceLink struct {
	Node       ProvenanceNode   `json:"node"`
	Upstream   []ProvenanceLink `json:"upstream,omitempty"`
	Downstream []ProvenanceLink `json:"downstream,omitempty"`
}

// ProvenanceLinks is the provenance links response for one artifact.
type ProvenanceLinks struct {
	Items []ProvenanceLink `json:"items,omitempty"`
}
