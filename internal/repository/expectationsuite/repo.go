// Package expectationsuite wraps the suite-level CRUD endpoints of a
// feature group.
package expectationsuite

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

// Repo manages the expectation suite of one feature group.
type Repo struct {
	t              transport
	featureStoreID int
	featureGroupID int
}

// New creates an expectation suite repository scoped to a feature group.
func New(t transport, featureStoreID, featureGroupID int) *Repo {
	return &Repo{t: t, featureStoreID: featureStoreID, featureGroupID: featureGroupID}
}

func (r *Repo) base() []string {
	return []string{
		"project", strconv.Itoa(r.t.Session().ProjectID),
		"featurestores", strconv.Itoa(r.featureStoreID),
		"featuregroups", strconv.Itoa(r.featureGroupID),
		"expectationsuite",
	}
}

// Save creates or replaces the feature group's expectation suite.
func (r *Repo) Save(ctx context.Context, suite dto.ExpectationSuite) (dto.ExpectationSuite, error) {
	body, err := json.Marshal(suite)
	if err != nil {
		return dto.ExpectationSuite{}, fmt.Errorf("encode suite: %w", err)
	}
	var saved dto.ExpectationSuite
	err = r.t.DoJSON(ctx, rest.Request{
		Method: http.MethodPut,
		Path:   r.base(),
		Body:   body,
	}, &saved)
	if err != nil {
		return dto.ExpectationSuite{}, fmt.Errorf("save expectation suite: %w", err)
	}
	return saved, nil
}

// Get fetches the feature group's expectation suite. Returns nil when the
// feature group has none (the backend reports an empty envelope).
func (r *Repo) Get(ctx context.Context) (*dto.ExpectationSuite, error) {
	data, err := r.t.Do(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   r.base(),
	})
	if err != nil {
		if rest.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expectation suite: %w", err)
	}

	var env dto.Envelope[dto.ExpectationSuite]
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode expectation suite: %w", err)
	}
	if env.Count != nil {
		if *env.Count == 0 {
			return nil, nil
		}
		return &env.Items[0], nil
	}

	var suite dto.ExpectationSuite
	if err := json.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("decode expectation suite: %w", err)
	}
	return &suite, nil
}

// Delete removes the feature group's expectation suite.
func (r *Repo) Delete(ctx context.Context) error {
	_, err := r.t.Do(ctx, rest.Request{
		Method: http.MethodDelete,
		Path:   r.base(),
	})
	if err != nil {
		return fmt.Errorf("delete expectation suite: %w", err)
	}
	return nil
}

// UpdateMetadata pushes suite-level fields (name, flags, meta) without
// touching the expectation list.
func (r *Repo) UpdateMetadata(ctx context.Context, suite dto.ExpectationSuite) (dto.ExpectationSuite, error) {
	if suite.ID == nil {
		return dto.ExpectationSuite{}, fmt.Errorf("update suite metadata: suite has no id")
	}
	body, err := json.Marshal(suite)
	if err != nil {
		return dto.ExpectationSuite{}, fmt.Errorf("encode suite: %w", err)
	}
	var updated dto.ExpectationSuite
	err = r.t.DoJSON(ctx, rest.Request{
		Method: http.MethodPut,
		Path:   append(r.base(), strconv.Itoa(*suite.ID), "metadata"),
		Body:   body,
	}, &updated)
	if err != nil {
		return dto.ExpectationSuite{}, fmt.Errorf("update suite metadata: %w", err)
	}
	return updated, nil
}
