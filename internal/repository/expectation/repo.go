// Package expectation wraps the single-expectation sub-resource of a
// registered expectation suite.
package expectation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/logicalclocks/hopsworks-go/internal/dto"
	"github.com/logicalclocks/hopsworks-go/internal/rest"
)

// transport is the consumer interface over the REST client.
type transport interface {
	Do(ctx context.Context, r rest.Request) ([]byte, error)
	DoJSON(ctx context.Context, r rest.Request, out any) error
	Session() rest.Session
}

// Repo manages the expectations of one registered suite.
type Repo struct {
	t              transport
	featureStoreID int
	featureGroupID int
	suiteID        int
}

// New creates an expectation repository scoped to a registered suite.
func New(t transport, featureStoreID, featureGroupID, suiteID int) *Repo {
	return &Repo{
		t:              t,
		featureStoreID: featureStoreID,
		featureGroupID: featureGroupID,
		suiteID:        suiteID,
	}
}

func (r *Repo) base() []string {
	return []string{
		"project", strconv.Itoa(r.t.Session().ProjectID),
		"featurestores", strconv.Itoa(r.featureStoreID),
		"featuregroups", strconv.Itoa(r.featureGroupID),
		"expectationsuite", strconv.Itoa(r.suiteID),
		"expectations",
	}
}

// Get fetches a single expectation by id.
func (r *Repo) Get(ctx context.Context, id int) (dto.Expectation, error) {
	var e dto.Expectation
	err := r.t.DoJSON(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   append(r.base(), strconv.Itoa(id)),
	}, &e)
	if err != nil {
		return dto.Expectation{}, fmt.Errorf("get expectation %d: %w", id, err)
	}
	return e, nil
}

// Create registers a new expectation on the suite.
func (r *Repo) Create(ctx context.Context, e dto.Expectation) (dto.Expectation, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return dto.Expectation{}, fmt.Errorf("encode expectation: %w", err)
	}
	var created dto.Expectation
	err = r.t.DoJSON(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   r.base(),
		Body:   body,
	}, &created)
	if err != nil {
		return dto.Expectation{}, fmt.Errorf("create expectation: %w", err)
	}
	return created, nil
}

// Update replaces an existing expectation. The expectation must carry an id.
func (r *Repo) Update(ctx context.Context, e dto.Expectation) (dto.Expectation, error) {
	if e.ID == nil {
		return dto.Expectation{}, fmt.Errorf("update expectation: missing id")
	}
	body, err := json.Marshal(e)
	if err != nil {
		return dto.Expectation{}, fmt.Errorf("encode expectation: %w", err)
	}
	var updated dto.Expectation
	err = r.t.DoJSON(ctx, rest.Request{
		Method: http.MethodPut,
		Path:   append(r.base(), strconv.Itoa(*e.ID)),
		Body:   body,
	}, &updated)
	if err != nil {
		return dto.Expectation{}, fmt.Errorf("update expectation %d: %w", *e.ID, err)
	}
	return updated, nil
}

// Delete removes an expectation by id.
func (r *Repo) Delete(ctx context.Context, id int) error {
	_, err := r.t.Do(ctx, rest.Request{
		Method: http.MethodDelete,
		Path:   append(r.base(), strconv.Itoa(id)),
	})
	if err != nil {
		return fmt.Errorf("delete expectation %d: %w", id, err)
	}
	return nil
}

// List fetches all expectations registered on the suite.
func (r *Repo) List(ctx context.Context) ([]dto.Expectation, error) {
	var env dto.Envelope[dto.Expectation]
	err := r.t.DoJSON(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   r.base(),
	}, &env)
	if err != nil {
		return nil, fmt.Errorf("list expectations: %w", err)
	}
	return env.Items, nil
}
