// Package opensearch fetches OpenSearch credentials from the backend.
package opensearch

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/logicalclocks/hopsworks-go/internal/dto"
	"github.com/logicalclocks/hopsworks-go/internal/rest"
)

// transport is the consumer interface over the REST client.
type transport interface {
	DoJSON(ctx context.Context, r rest.Request, out any) error
	Session() rest.Session
}

// Repo fetches OpenSearch authorization tokens.
type Repo struct {
	t transport
}

// New creates an opensearch repository.
func New(t transport) *Repo {
	return &Repo{t: t}
}

// AuthorizationToken returns a short-lived JWT for the project's
// OpenSearch indices.
func (r *Repo) AuthorizationToken(ctx context.Context) (string, error) {
	var tok dto.Token
	err := r.t.DoJSON(ctx, rest.Request{
		Method:  http.MethodGet,
		Path:    []string{"elastic", "jwt", strconv.Itoa(r.t.Session().ProjectID)},
		Headers: map[string]string{"Content-Type": "application/json"},
	}, &tok)
	if err != nil {
		return "", fmt.Errorf("get opensearch token: %w", err)
	}
	return tok.Token, nil
}
