package job

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/nngrid/blobstore"
	"github.com/hupe1980/nngrid/codec"
	"github.com/hupe1980/nngrid/ledger"
)

// Outcome reports what Process did with one job.
type Outcome struct {
	Job    string
	Output string
	// RunID is the Interpolator ID, or the recorded one when Skipped.
	RunID string
	// Skipped is set when the ledger already held this job digest.
	Skipped bool
}

// ProcessConfig configures Process.
type ProcessConfig struct {
	// Output overrides the result blob name.
	Output string
	// Codec encodes the result. Nil uses codec.Default.
	Codec codec.Codec
	// Ledger, if set, skips jobs whose digest is already recorded and
	// records completed runs.
	Ledger ledger.Ledger
}

// Process loads the job blob name, runs it and writes its result document
// to the same store.
func (r *Runner) Process(ctx context.Context, store blobstore.BlobStore, name string, cfg ProcessConfig) (Outcome, error) {
	j, err := Load(ctx, store, name)
	if err != nil {
		return Outcome{Job: name}, err
	}
	out := Outcome{Job: name, Output: j.OutputName(cfg.Output)}

	if cfg.Ledger != nil {
		e, ok, err := cfg.Ledger.Lookup(ctx, name, j.Digest)
		if err != nil {
			return out, err
		}
		if ok {
			r.logger.Info("job already recorded", "job", name, "digest", j.Digest, "output", e.Output)
			out.Output = e.Output
			out.RunID = e.RunID
			out.Skipped = true
			return out, nil
		}
	}

	res, err := r.Run(ctx, j)
	if err != nil {
		return out, err
	}
	out.RunID = res.ID

	if err := Write(ctx, store, out.Output, NewDocument(j, res), cfg.Codec); err != nil {
		return out, err
	}

	if cfg.Ledger != nil {
		err := cfg.Ledger.Record(ctx, ledger.Entry{
			Job:        name,
			Digest:     j.Digest,
			RunID:      res.ID,
			Output:     out.Output,
			FinishedAt: time.Now().UTC(),
		})
		// A concurrent runner finished the same job first; both outputs are
		// equivalent.
		if err != nil && !errors.Is(err, ledger.ErrAlreadyRecorded) {
			return out, err
		}
	}
	return out, nil
}
