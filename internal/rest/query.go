package rest

import (
	"fmt"
	"net/url"

	"github.com/oapi-codegen/runtime"
)

// AddQueryParam styles value with OpenAPI form encoding and merges the
// resulting fragment into q. Slices produce repeated parameters, scalars a
// single pair.
func AddQueryParam(q url.Values, name string, value any) error {
	frag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
	if err != nil {
		return fmt.Errorf("rest: style query param %q: %w", name, err)
	}
	parsed, err := url.ParseQuery(frag)
	if err != nil {
		return fmt.Errorf("rest: parse query fragment %q: %w", frag, err)
	}
	for k, vs := range parsed {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return nil
}

// Query builds url.Values from name/value pairs, failing on the first
// unstylable value.
func Query(pairs ...any) (url.Values, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("rest: odd number of query arguments: %d", len(pairs))
	}
	q := url.Values{}
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("rest: query name at %d is %T, want string", i, pairs[i])
		}
		if err := AddQueryParam(q, name, pairs[i+1]); err != nil {
			return nil, err
		}
	}
	return q, nil
}
