// Package variables reads cluster configuration variables.
package variables

import (
	"context"
	"fmt"
	"net/http"

	"github.com/logicalclocks/hopsworks-go/internal/dto"
	"github.com/logicalclocks/hopsworks-go/internal/rest"
)

// transport is the consumer interface over the REST client.
type transport interface {
	DoJSON(ctx context.Context, r rest.Request, out any) error
}

// Repo reads backend configuration variables.
type Repo struct {
	t transport
}

// New creates a variables repository.
func New(t transport) *Repo {
	return &Repo{t: t}
}

// Get returns the value of a cluster variable.
func (r *Repo) Get(ctx context.Context, name string) (string, error) {
	var v dto.Variable
	err := r.t.DoJSON(ctx, rest.Request{
		Method: http.MethodGet,
		Path:   []string{"variables", name},
	}, &v)
	if err != nil {
		return "", fmt.Errorf("get variable %q: %w", name, err)
	}
	return v.SuccessMessage, nil
}

// ServiceDiscoveryDomain returns the cluster's service discovery domain.
// Empty when the variable is unset.
func (r *Repo) ServiceDiscoveryDomain(ctx context.Context) (string, error) {
	domain, err := r.Get(ctx, "service_discovery_domain")
	if err != nil {
		if rest.IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return domain, nil
}

// LoadBalancerExternalDomain returns the external load balancer domain for
// a cluster service.
func (r *Repo) LoadBalancerExternalDomain(ctx context.Context, service string) (string, error) {
	return r.Get(ctx, "loadbalancer_external_domain_"+service)
}
