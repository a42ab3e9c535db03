package hopsworks

import (
	"encoding/json"
	"fmt"

	"github.com/logicalclocks/hopsworks-go/internal/domain"
	"github.com/logicalclocks/hopsworks-go/internal/dto"
	"github.com/logicalclocks/hopsworks-go/internal/keycase"
)

// KeyCase selects the key style of serialized dictionaries.
type KeyCase string

// Key case constants.
const (
	KeyCamel KeyCase = "camel"
	KeySnake KeyCase = "snake"
)

// Expectation is a single data-validation rule: a typed predicate over one
// or more columns, with free-form parameters. The backend assigns the id.
type Expectation struct {
	ID              *int
	ExpectationType string
	Kwargs          map[string]any
	Meta            map[string]any
}

// ExpectationConverter bridges the SDK expectation types with a validation
// framework's native representation. Register one with
// WithExpectationConverter; without it native conversions fail with
// ErrConverterNotConfigured.
type ExpectationConverter interface {
	// FromNativeExpectation converts a framework-native expectation.
	// ok is false when the value is not a native expectation.
	FromNativeExpectation(native any) (Expectation, bool)
	// ToNativeExpectation converts an expectation to the framework type.
	ToNativeExpectation(e Expectation) (any, error)
	// FromNativeSuite converts a framework-native suite.
	// ok is false when the value is not a native suite.
	FromNativeSuite(native any) (*ExpectationSuite, bool)
	// ToNativeSuite converts a suite to the framework type.
	ToNativeSuite(s *ExpectationSuite) (any, error)
}

// JSONDict serializes the expectation with nested kwargs and meta. The key
// case applies to the field names only; kwargs and meta keys stay verbatim.
func (e Expectation) JSONDict(kc KeyCase) map[string]any {
	d := map[string]any{
		"expectationType": e.ExpectationType,
		"kwargs":          e.Kwargs,
		"meta":            e.Meta,
	}
	if e.ID != nil {
		d["id"] = *e.ID
	}
	if kc == KeySnake {
		return keycase.ConvertKeysExcept(d, keycase.ToSnake, "kwargs", "meta").(map[string]any)
	}
	return d
}

// expectationFromMap builds an expectation from a generic dictionary.
// Keys may be camelCase or snake_case; kwargs and meta may be nested maps
// or stringified JSON. Only the field names are normalized: the kwargs and
// meta payloads belong to the user and keep their keys verbatim.
func expectationFromMap(m map[string]any) (Expectation, error) {
	camel := keycase.ConvertKeysExcept(m, keycase.ToCamel, "kwargs", "meta").(map[string]any)

	e := Expectation{}
	if raw, ok := camel["id"]; ok {
		id, ok := asInt(raw)
		if !ok {
			return Expectation{}, fmt.Errorf("expectation id must be numeric, got %T", raw)
		}
		e.ID = &id
	}
	if t, ok := camel["expectationType"].(string); ok {
		e.ExpectationType = t
	}

	var err error
	if e.Kwargs, err = asDict(camel["kwargs"]); err != nil {
		return Expectation{}, fmt.Errorf("expectation kwargs: %w", err)
	}
	if e.Meta, err = asDict(camel["meta"]); err != nil {
		return Expectation{}, fmt.Errorf("expectation meta: %w", err)
	}
	return e, nil
}

// convertExpectation normalizes the supported expectation inputs:
// Expectation, a generic map, or (with a converter) a framework-native
// object. Anything else is a type error naming the offending input.
func convertExpectation(input any, conv ExpectationConverter) (Expectation, error) {
	switch v := input.(type) {
	case Expectation:
		return v, nil
	case *Expectation:
		if v == nil {
			return Expectation{}, domain.NewUnsupportedExpectation(input)
		}
		return *v, nil
	case map[string]any:
		return expectationFromMap(v)
	default:
		if conv != nil {
			if e, ok := conv.FromNativeExpectation(input); ok {
				return e, nil
			}
		}
		return Expectation{}, domain.NewUnsupportedExpectation(input)
	}
}

// metaExpectationID extracts the backend id from the expectationId meta
// field, the fallback used when an expectation carries no explicit id.
func metaExpectationID(meta map[string]any) (int, bool) {
	if meta == nil {
		return 0, false
	}
	return asInt(meta["expectationId"])
}

func (e Expectation) toDTO() (dto.Expectation, error) {
	kwargs, err := json.Marshal(orEmptyDict(e.Kwargs))
	if err != nil {
		return dto.Expectation{}, fmt.Errorf("encode kwargs: %w", err)
	}
	meta, err := json.Marshal(orEmptyDict(e.Meta))
	if err != nil {
		return dto.Expectation{}, fmt.Errorf("encode meta: %w", err)
	}
	return dto.Expectation{
		ID:              e.ID,
		ExpectationType: e.ExpectationType,
		Kwargs:          string(kwargs),
		Meta:            string(meta),
	}, nil
}

func expectationFromDTO(d dto.Expectation) (Expectation, error) {
	e := Expectation{ID: d.ID, ExpectationType: d.ExpectationType}
	var err error
	if e.Kwargs, err = asDict(d.Kwargs); err != nil {
		return Expectation{}, fmt.Errorf("decode kwargs: %w", err)
	}
	if e.Meta, err = asDict(d.Meta); err != nil {
		return Expectation{}, fmt.Errorf("decode meta: %w", err)
	}
	return e, nil
}

// asDict accepts a nested map, stringified JSON, or nil.
func asDict(v any) (map[string]any, error) {
	switch t := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return t, nil
	case string:
		if t == "" {
			return map[string]any{}, nil
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(t), &m); err != nil {
			return nil, fmt.Errorf("invalid stringified json: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("must be a map or stringified json, got %T", v)
	}
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func orEmptyDict(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
