// Package job runs interpolation jobs described by YAML blobs.
package job

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/nngrid/blobstore"
	"github.com/hupe1980/nngrid/codec"
	"github.com/hupe1980/nngrid/internal/compress"
	"github.com/hupe1980/nngrid/internal/hash"
)

// ErrInvalidJob is returned for a job that cannot be run.
var ErrInvalidJob = errors.New("job: invalid job")

// Job describes one build and apply.
//
//	source:
//	  lon: [0, 1, 2]
//	  lat: [0, 1]
//	  topology: regular
//	target:
//	  lon: [0.4, 1.6]
//	  lat: [0.2, 0.9]
//	neighbours: 4
//	method: inverse-distance
//	data:
//	  shape: [3, 2]
//	  values: [1, 2, 3, 4, 5, 6]
type Job struct {
	Source     Grid   `yaml:"source"`
	Target     Grid   `yaml:"target"`
	Neighbours int    `yaml:"neighbours,omitempty"`
	Method     string `yaml:"method,omitempty"`
	Index      string `yaml:"index,omitempty"`
	// Mask lists flat source offsets excluded from the index. Empty means
	// all points are indexed.
	Mask []uint32 `yaml:"mask,omitempty"`
	Data Field    `yaml:"data"`
	// Output is the default result blob name.
	Output string `yaml:"output,omitempty"`

	// Name is the blob the job was loaded from.
	Name string `yaml:"-"`
	// Digest identifies the job blob contents.
	Digest string `yaml:"-"`
}

// Grid holds coordinate arrays.
type Grid struct {
	Lon []float64 `yaml:"lon"`
	Lat []float64 `yaml:"lat"`
	// Shape reshapes both arrays, e.g. for 2D curvilinear coordinates.
	Shape    []int  `yaml:"shape,omitempty"`
	Topology string `yaml:"topology,omitempty"`
}

// Field holds the values to interpolate.
type Field struct {
	Values []float64 `yaml:"values,omitempty"`
	Shape  []int     `yaml:"shape"`
	Dims   []string  `yaml:"dims,omitempty"`
	// Blob names a JSON array of values, compressed by extension, used
	// instead of Values.
	Blob string `yaml:"blob,omitempty"`
}

// Parse decodes a YAML job.
func Parse(data []byte) (*Job, error) {
	var j Job
	if err := yaml.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}
	j.Digest = Digest(data)
	if err := j.Validate(); err != nil {
		return nil, err
	}
	return &j, nil
}

// Digest returns the content digest of a job blob.
func Digest(data []byte) string {
	return hash.Digest(data)
}

// Validate checks the parts of a job that do not depend on the grids.
// Shape and topology checks happen at build time.
func (j *Job) Validate() error {
	switch {
	case len(j.Source.Lon) == 0 || len(j.Source.Lat) == 0:
		return fmt.Errorf("%w: source coordinates are required", ErrInvalidJob)
	case len(j.Target.Lon) == 0 || len(j.Target.Lat) == 0:
		return fmt.Errorf("%w: target coordinates are required", ErrInvalidJob)
	case j.Neighbours < 0:
		return fmt.Errorf("%w: neighbours must be positive, got %d", ErrInvalidJob, j.Neighbours)
	case len(j.Data.Values) > 0 && j.Data.Blob != "":
		return fmt.Errorf("%w: data.values and data.blob are exclusive", ErrInvalidJob)
	case len(j.Data.Dims) > 0 && len(j.Data.Dims) != len(j.Data.Shape):
		return fmt.Errorf("%w: %d data dims for %d-dimensional shape", ErrInvalidJob, len(j.Data.Dims), len(j.Data.Shape))
	}
	return nil
}

// Load reads and parses a job blob, decompressing by extension. A data.blob
// reference is resolved against the same store.
func Load(ctx context.Context, store blobstore.BlobStore, name string) (*Job, error) {
	data, err := readBlob(ctx, store, name)
	if err != nil {
		return nil, err
	}

	j, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	j.Name = name

	if j.Data.Blob != "" {
		raw, err := readBlob(ctx, store, j.Data.Blob)
		if err != nil {
			return nil, err
		}
		if err := codec.Default.Unmarshal(raw, &j.Data.Values); err != nil {
			return nil, fmt.Errorf("%s: decode data blob %s: %w", name, j.Data.Blob, err)
		}
	}
	return j, nil
}

// OutputName returns the result blob name: override if set, then the job's
// output field, then the job name with its extensions replaced by
// ".result.json".
func (j *Job) OutputName(override string) string {
	if override != "" {
		return override
	}
	if j.Output != "" {
		return j.Output
	}
	base := j.Name
	if t := compress.TypeFromName(base); t != compress.None {
		base = strings.TrimSuffix(base, path.Ext(base))
	}
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" {
		base = "job"
	}
	return base + ".result.json"
}

func readBlob(ctx context.Context, store blobstore.BlobStore, name string) ([]byte, error) {
	data, err := store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	data, err = compress.Decompress(data, compress.TypeFromName(name))
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", name, err)
	}
	return data, nil
}
