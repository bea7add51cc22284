package job

import (
	"context"
	"fmt"

	"github.com/hupe1980/nngrid/blobstore"
	"github.com/hupe1980/nngrid/codec"
	"github.com/hupe1980/nngrid/internal/compress"
)

// Document is the encoded form of a Result.
type Document struct {
	ID     string              `json:"id"`
	Job    string              `json:"job,omitempty"`
	Digest string              `json:"digest,omitempty"`
	Dims   []string            `json:"dims"`
	Shape  []int               `json:"shape"`
	Values []float64           `json:"values"`
	Coords map[string]DocCoord `json:"coords,omitempty"`
	Attrs  map[string]string   `json:"attrs,omitempty"`
}

// DocCoord is an encoded coordinate.
type DocCoord struct {
	Dims   []string  `json:"dims"`
	Values []float64 `json:"values"`
}

// Validate checks that Values fills Shape, every coordinate fills its
// dimensions, and no value is NaN or infinite.
func (d *Document) Validate() error {
	if len(d.Dims) != len(d.Shape) {
		return fmt.Errorf("document %s: %d dims for %d-d shape", d.ID, len(d.Dims), len(d.Shape))
	}
	size := map[string]int{}
	n := 1
	for i, s := range d.Shape {
		size[d.Dims[i]] = s
		n *= s
	}
	if n != len(d.Values) {
		return fmt.Errorf("document %s: shape %v needs %d values, got %d", d.ID, d.Shape, n, len(d.Values))
	}
	if err := codec.CheckFinite("values", d.Values); err != nil {
		return fmt.Errorf("document %s: %w", d.ID, err)
	}
	for name, c := range d.Coords {
		m := 1
		for _, dim := range c.Dims {
			s, ok := size[dim]
			if !ok {
				return fmt.Errorf("document %s: coord %s uses unknown dim %s", d.ID, name, dim)
			}
			m *= s
		}
		if m != len(c.Values) {
			return fmt.Errorf("document %s: coord %s needs %d values, got %d", d.ID, name, m, len(c.Values))
		}
		if err := codec.CheckFinite("coords."+name, c.Values); err != nil {
			return fmt.Errorf("document %s: %w", d.ID, err)
		}
	}
	return nil
}

// NewDocument converts the result of running j.
func NewDocument(j *Job, res *Result) *Document {
	a := res.Array
	doc := &Document{
		ID:     res.ID,
		Job:    j.Name,
		Digest: j.Digest,
		Dims:   a.Dims(),
		Shape:  a.Shape(),
		Values: a.Values(),
		Attrs:  a.Attrs(),
	}
	if names := a.CoordNames(); len(names) > 0 {
		doc.Coords = make(map[string]DocCoord, len(names))
		for _, name := range names {
			c, _ := a.Coord(name)
			doc.Coords[name] = DocCoord{Dims: c.Dims, Values: c.Values}
		}
	}
	return doc
}

// Write encodes doc with c, compresses it by the extension of name and
// stores it. A nil codec uses codec.Default.
func Write(ctx context.Context, store blobstore.BlobStore, name string, doc *Document, c codec.Codec) error {
	if c == nil {
		c = codec.Default
	}
	data, err := c.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s with %s: %w", name, c.Name(), err)
	}
	data, err = compress.Compress(data, compress.TypeFromName(name))
	if err != nil {
		return fmt.Errorf("compress %s: %w", name, err)
	}
	return store.Put(ctx, name, data)
}

// ReadDocument loads a document written by Write.
func ReadDocument(ctx context.Context, store blobstore.BlobStore, name string, c codec.Codec) (*Document, error) {
	if c == nil {
		c = codec.Default
	}
	data, err := readBlob(ctx, store, name)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := c.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s with %s: %w", name, c.Name(), err)
	}
	return &doc, nil
}
