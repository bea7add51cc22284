// Package codec centralizes result and job encoding.
//
// Written blobs carry no codec header; readers select the codec by the name
// the writer was configured with. Values implementing Validator are checked
// before encoding and after decoding, so a document never leaves or enters
// the process half-valid.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	gojson "github.com/goccy/go-json"
)

// ErrNonFinite is returned for NaN or infinite floats. JSON has no literal
// for them.
var ErrNonFinite = errors.New("non-finite value")

// Validator is implemented by documents that check their own consistency.
type Validator interface {
	Validate() error
}

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// JSON is the standard-library JSON codec.
type JSON struct{}

// Marshal validates v and encodes it.
func (JSON) Marshal(v any) ([]byte, error) { return marshal(json.Marshal, v) }

// Unmarshal decodes data into v and validates the result.
func (JSON) Unmarshal(data []byte, v any) error { return unmarshal(json.Unmarshal, data, v) }

// Name returns "json".
func (JSON) Name() string { return "json" }

// GoJSON is a JSON codec backed by github.com/goccy/go-json.
// Its output is interchangeable with JSON.
type GoJSON struct{}

// Marshal validates v and encodes it.
func (GoJSON) Marshal(v any) ([]byte, error) { return marshal(gojson.Marshal, v) }

// Unmarshal decodes data into v and validates the result.
func (GoJSON) Unmarshal(data []byte, v any) error { return unmarshal(gojson.Unmarshal, data, v) }

// Name returns "go-json".
func (GoJSON) Name() string { return "go-json" }

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}

func marshal(enc func(any) ([]byte, error), v any) ([]byte, error) {
	if val, ok := v.(Validator); ok {
		if err := val.Validate(); err != nil {
			return nil, err
		}
	}
	return enc(v)
}

func unmarshal(dec func([]byte, any) error, data []byte, v any) error {
	if err := dec(data, v); err != nil {
		return err
	}
	if val, ok := v.(Validator); ok {
		return val.Validate()
	}
	return nil
}

// CheckFinite returns an ErrNonFinite error naming the first offending
// index of values under field.
func CheckFinite(field string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s[%d] = %v: %w", field, i, v, ErrNonFinite)
		}
	}
	return nil
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json", "":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Names lists the built-in codec names.
func Names() []string { return []string{"json", "go-json"} }

// MustMarshal is a helper for tests.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
