// Package model wraps the model registry endpoints: model CRUD, tags and
// provenance links.
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/logicalclocks/hopsworks-go/internal/dto"
	"github.com/logicalclocks/hopsworks-go/internal/rest"
)

// transport is the consumer interface over the REST client.
type transport interface {
	Do(ctx context.Context, r rest.Request) ([]byte, error)
	DoJSON(ctx context.Context, r rest.Request, out any) error
	Session() rest.Session
}

// Repo manages models within one registry.
type Repo struct {
	t          transport
	registryID int
}

// New creates a model repository scoped to a registry.
func New(t transport, registryID int) *Repo {
	return &Repo{t: t, registryID: registryID}
}

func (r *Repo) base() []string {
	return []string{
		"project", strconv.Itoa(r.t.Session().ProjectID),
		"modelregistries", strconv.Itoa(r.registryID),
		"models",
	}
}

// Put upserts a model keyed by "{name}_{version}". The response replaces
// all local fields.
func (r *Repo) Put(ctx context.Context, m dto.Model, query url.Values) (dto.Model, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return dto.Model{}, fmt.Errorf("encode model: %w", err)
	}
	var saved dto.Model
	err = r.t.DoJSON(ctx, rest.Request{
		Method: http.MethodPut,
		Path:   append(r.base(), m.Name+"_"+strconv.Itoa(m.Version)),
		Query:  query,
		Body:   body,
	}, &saved)
	if err != nil {
		return dto.Model{}, fmt.Errorf("put model %s_%d: %w", m.Name, m.Version, err)
	}
	return saved, nil
}

// Get fetches a model by name and version. Returns nil when the backend
// reports not-found; any other error propagates.
func (r *Repo) Get(ctx context.Context, name string, version int) (*dto.Model, error) {
	query, err := rest.Query("expand", "trainingdatasets")
	if err != nil {
		return nil, err
	}
	var m dto.Model
	err = r.t.DoJSON(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   append(r.base(), name+"_"+strconv.Itoa(version)),
		Query:  query,
	}, &m)
	if err != nil {
		if rest.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get model %s_%d: %w", name, version, err)
	}
	return &m, nil
}

// List fetches all model versions with the given name. When both metric
// and direction are set, the backend sorts by the metric and returns only
// the best version ("max" maps to descending, "min" to ascending).
func (r *Repo) List(ctx context.Context, name, metric, direction string) ([]dto.Model, error) {
	query, err := rest.Query(
		"expand", "trainingdatasets",
		"filter_by", "name_eq:"+name,
	)
	if err != nil {
		return nil, err
	}
	if metric != "" && direction != "" {
		order, err := sortOrder(direction)
		if err != nil {
			return nil, err
		}
		query.Set("sort_by", metric+":"+order)
		query.Set("limit", "1")
	}

	var env dto.Envelope[dto.Model]
	err = r.t.DoJSON(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   r.base(),
		Query:  query,
	}, &env)
	if err != nil {
		return nil, fmt.Errorf("list models %q: %w", name, err)
	}
	if env.Count == nil || *env.Count == 0 {
		return nil, nil
	}
	return env.Items, nil
}

func sortOrder(direction string) (string, error) {
	switch strings.ToLower(direction) {
	case "max":
		return "desc", nil
	case "min":
		return "asc", nil
	default:
		return "", fmt.Errorf("direction must be \"max\" or \"min\", got %q", direction)
	}
}

// Delete removes a model and its metadata. Not-found is not swallowed.
func (r *Repo) Delete(ctx context.Context, id string) error {
	_, err := r.t.Do(ctx, rest.Request{
		Method: http.MethodDelete,
		Path:   append(r.base(), id),
	})
	if err != nil {
		return fmt.Errorf("delete model %s: %w", id, err)
	}
	return nil
}

// SetTag attaches a tag to a model. The value is JSON-encoded whatever its
// shape, so string values arrive quoted and structured values as objects.
func (r *Repo) SetTag(ctx context.Context, modelID, name string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode tag %q: %w", name, err)
	}
	_, err = r.t.Do(ctx, rest.Request{
		Method: http.MethodPut,
		Path:   append(r.base(), modelID, "tags", name),
		Body:   encoded,
	})
	if err != nil {
		return fmt.Errorf("set tag %q: %w", name, err)
	}
	return nil
}

// DeleteTag removes a tag from a model.
func (r *Repo) DeleteTag(ctx context.Context, modelID, name string) error {
	_, err := r.t.Do(ctx, rest.Request{
		Method: http.MethodDelete,
		Path:   append(r.base(), modelID, "tags", name),
	})
	if err != nil {
		return fmt.Errorf("delete tag %q: %w", name, err)
	}
	return nil
}

// Tags fetches all tags of a model with their values JSON-decoded.
// Not-found yields an empty map.
func (r *Repo) Tags(ctx context.Context, modelID string) (map[string]any, error) {
	var env dto.Envelope[dto.Tag]
	err := r.t.DoJSON(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   append(r.base(), modelID, "tags"),
	}, &env)
	if err != nil {
		if rest.IsNotFound(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("get tags: %w", err)
	}

	tags := make(map[string]any, len(env.Items))
	for _, t := range env.Items {
		var value any
		if err := json.Unmarshal([]byte(t.Value), &value); err != nil {
			return nil, fmt.Errorf("decode tag %q: %w", t.Name, err)
		}
		tags[t.Name] = value
	}
	return tags, nil
}

// Tag fetches a single tag value. Not-found yields nil.
func (r *Repo) Tag(ctx context.Context, modelID, name string) (any, error) {
	var env dto.Envelope[dto.Tag]
	err := r.t.DoJSON(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   append(r.base(), modelID, "tags", name),
	}, &env)
	if err != nil {
		if rest.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tag %q: %w", name, err)
	}
	for _, t := range env.Items {
		if t.Name != name {
			continue
		}
		var value any
		if err := json.Unmarshal([]byte(t.Value), &value); err != nil {
			return nil, fmt.Errorf("decode tag %q: %w", name, err)
		}
		return value, nil
	}
	return nil, nil
}

// ProvenanceLinks fetches the provenance graph of a model up to
// upstreamLevels hops upstream. Downstream expansion is never requested.
func (r *Repo) ProvenanceLinks(ctx context.Context, modelID string, upstreamLevels int) (dto.ProvenanceLinks, error) {
	query, err := rest.Query(
		"expand", "provenance_artifacts",
		"upstreamLvls", upstreamLevels,
		"downstreamLvls", 0,
	)
	if err != nil {
		return dto.ProvenanceLinks{}, err
	}
	var links dto.ProvenanceLinks
	err = r.t.DoJSON(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   append(r.base(), modelID, "provenance", "links"),
		Query:  query,
	}, &links)
	if err != nil {
		return dto.ProvenanceLinks{}, fmt.Errorf("get provenance links: %w", err)
	}
	return links, nil
}
