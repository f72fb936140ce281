package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/hupe1980/bookbridge/assets"
	"github.com/hupe1980/bookbridge/blobstore"
	"github.com/hupe1980/bookbridge/similarity"
)

// Vector is one similarity index row. Row order matters: score ties
// resolve by it.
type Vector struct {
	ID     string
	Values []float32
}

// Fixture describes a complete, coherent artifact set for tests.
type Fixture struct {
	// Titles maps raw title strings to catalog identifiers.
	Titles map[string]string
	// Dimension is the vector dimensionality of the similarity index.
	Dimension int
	// Vectors are the similarity index rows, in row order.
	Vectors []Vector
	// Records are the metadata shard lines, one map per record.
	Records []map[string]any
}

// TitleIndexJSON renders the title artifact.
func (f Fixture) TitleIndexJSON() ([]byte, error) {
	return json.Marshal(f.Titles)
}

// SimilarityArtifact renders the similarity artifact.
func (f Fixture) SimilarityArtifact() ([]byte, error) {
	w := similarity.NewWriter(f.Dimension)
	for _, v := range f.Vectors {
		if err := w.Add(v.ID, v.Values); err != nil {
			return nil, err
		}
	}

	tmp, err := os.CreateTemp("", "bookbridge-fixture-*")
	if err != nil {
		return nil, err
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	if err := w.WriteFile(tmp.Name()); err != nil {
		return nil, err
	}
	return os.ReadFile(tmp.Name())
}

// MetadataShard renders the records as one newline-delimited JSON shard.
func (f Fixture) MetadataShard() ([]byte, error) {
	var out []byte
	for _, rec := range f.Records {
		line, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out, nil
}

// Populate uploads the fixture's three artifacts into the store at the
// given locations.
func Populate(ctx context.Context, store blobstore.BlobStore, loc assets.Locations, f Fixture) error {
	titles, err := f.TitleIndexJSON()
	if err != nil {
		return fmt.Errorf("testutil: title index: %w", err)
	}
	if err := store.Put(ctx, loc.TitleIndexObject, titles); err != nil {
		return err
	}

	sim, err := f.SimilarityArtifact()
	if err != nil {
		return fmt.Errorf("testutil: similarity artifact: %w", err)
	}
	if err := store.Put(ctx, loc.SimilarityIndexObject, sim); err != nil {
		return err
	}

	shard, err := f.MetadataShard()
	if err != nil {
		return fmt.Errorf("testutil: metadata shard: %w", err)
	}
	return store.Put(ctx, path.Join(loc.MetadataPrefix, "shard-000.jsonl"), shard)
}
