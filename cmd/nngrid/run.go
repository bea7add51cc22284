package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/nngrid"
	"github.com/hupe1980/nngrid/blobstore"
	"github.com/hupe1980/nngrid/blobstore/minio"
	"github.com/hupe1980/nngrid/blobstore/s3"
	"github.com/hupe1980/nngrid/codec"
	"github.com/hupe1980/nngrid/internal/job"
	"github.com/hupe1980/nngrid/internal/resource"
	"github.com/hupe1980/nngrid/ledger"
	"github.com/hupe1980/nngrid/ledger/dynamodb"
)

const (
	// RunDefaultJobs is the default number of jobs run at once.
	RunDefaultJobs = 1

	// RunDefaultCacheSize is the default number of cached Interpolators.
	RunDefaultCacheSize = nngrid.DefaultCacheSize
)

type runFlags struct {
	store       string
	root        string
	bucket      string
	prefix      string
	region      string
	endpoint    string
	accessKey   string
	secretKey   string
	insecure    bool
	out         string
	jsonCodec   string
	ledgerTable string
	jobs        int
	workers     int
	cacheSize   int
	blobCache   int
	memoryLimit int64
	ioLimit     int64
}

var runOpts runFlags

var runCmd = &cobra.Command{
	Use:   "run <job.yaml>...",
	Short: "Run interpolation jobs",
	Long: `Run one or more interpolation jobs and write their result documents.

Job and result blobs are compressed according to their extension
(.gz, .zst, .lz4). Jobs sharing grids and configuration reuse one index.

Examples:
  nngrid run jobs/t2m.yaml
  nngrid run jobs/t2m.yaml --out results/t2m.json.zst
  nngrid run jobs/*.yaml --jobs 4 --store s3 --bucket grids --prefix era5/
  nngrid run jobs/a.yaml --store minio --endpoint localhost:9000 --bucket grids
  nngrid run jobs/a.yaml --store s3 --bucket grids --ledger-table nngrid-runs`,
	Args: cobra.MinimumNArgs(1),
	RunE: runJobs,
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.StringVar(&runOpts.store, "store", "local", "Blob store (local, s3, minio)")
	f.StringVar(&runOpts.root, "root", ".", "Root directory of the local store")
	f.StringVar(&runOpts.bucket, "bucket", "", "Bucket for s3 and minio stores")
	f.StringVar(&runOpts.prefix, "prefix", "", "Key prefix for s3 and minio stores")
	f.StringVar(&runOpts.region, "region", "", "Region for s3 and minio stores")
	f.StringVar(&runOpts.endpoint, "endpoint", "", "Custom endpoint for s3, host:port for minio")
	f.StringVar(&runOpts.accessKey, "access-key", "", "Access key for minio")
	f.StringVar(&runOpts.secretKey, "secret-key", "", "Secret key for minio")
	f.BoolVar(&runOpts.insecure, "insecure", false, "Use plain HTTP for minio")
	f.StringVarP(&runOpts.out, "out", "o", "", "Result blob name (single job only)")
	f.StringVar(&runOpts.jsonCodec, "json-codec", "go-json", "Result codec (json, go-json)")
	f.StringVar(&runOpts.ledgerTable, "ledger-table", "", "DynamoDB table recording completed runs")
	f.IntVarP(&runOpts.jobs, "jobs", "j", RunDefaultJobs, "Maximum concurrent jobs")
	f.IntVarP(&runOpts.workers, "workers", "w", 0, "Workers per job (0 = GOMAXPROCS)")
	f.IntVar(&runOpts.cacheSize, "cache-size", RunDefaultCacheSize, "Cached Interpolators")
	f.IntVar(&runOpts.blobCache, "blob-cache", 0, "Cached blobs for remote stores (0 disables)")
	f.Int64Var(&runOpts.memoryLimit, "memory-limit", 0, "Combined working-set limit of running jobs in bytes (0 = unlimited)")
	f.Int64Var(&runOpts.ioLimit, "io-limit", 0, "Blob transfer limit in bytes per second (0 = unlimited)")
}

func runJobs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	opts := runOpts

	if opts.out != "" && len(args) > 1 {
		return fmt.Errorf("--out requires a single job, got %d", len(args))
	}
	c, ok := codec.ByName(opts.jsonCodec)
	if !ok {
		return fmt.Errorf("unknown --json-codec %q (want one of %v)", opts.jsonCodec, codec.Names())
	}

	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   opts.memoryLimit,
		MaxConcurrentJobs:  int64(max(opts.jobs, 1)),
		IOLimitBytesPerSec: opts.ioLimit,
	})

	store, err := openStore(ctx, opts)
	if err != nil {
		return err
	}
	if cs, ok := store.(*blobstore.CachingStore); ok {
		// Warm the cache and fail before any job runs if a job is missing.
		if _, err := cs.GetMany(ctx, args); err != nil {
			return err
		}
	}
	store = resource.NewLimitedStore(store, rc)

	var l ledger.Ledger
	if opts.ledgerTable != "" {
		l, err = dynamodb.New(ctx, opts.ledgerTable)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
	}

	cache, err := nngrid.NewCache(opts.cacheSize, nngrid.WithCacheLogger(logger))
	if err != nil {
		return err
	}

	runner := job.NewRunner(
		job.WithCache(cache),
		job.WithController(rc),
		job.WithWorkers(opts.workers),
		job.WithLogger(logger),
	)
	cfg := job.ProcessConfig{Output: opts.out, Codec: c, Ledger: l}

	var mu sync.Mutex
	w := cmd.OutOrStdout()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.jobs, 1))
	for _, name := range args {
		g.Go(func() error {
			out, err := runner.Process(ctx, store, name, cfg)
			if err != nil {
				logger.Error("job failed", "job", name, "error", err)
				return fmt.Errorf("%s: %w", name, err)
			}

			mu.Lock()
			defer mu.Unlock()
			if out.Skipped {
				fmt.Fprintf(w, "%s -> %s (unchanged, run %s)\n", out.Job, out.Output, out.RunID)
			} else {
				fmt.Fprintf(w, "%s -> %s (run %s)\n", out.Job, out.Output, out.RunID)
			}
			return nil
		})
	}
	return g.Wait()
}

func openStore(ctx context.Context, opts runFlags) (blobstore.BlobStore, error) {
	var store blobstore.BlobStore
	switch opts.store {
	case "local":
		return blobstore.NewLocalStore(opts.root), nil
	case "s3":
		if opts.bucket == "" {
			return nil, fmt.Errorf("--bucket is required for the s3 store")
		}
		s3opts := []s3.Option{s3.WithPrefix(opts.prefix)}
		if opts.region != "" {
			s3opts = append(s3opts, s3.WithRegion(opts.region))
		}
		if opts.endpoint != "" {
			s3opts = append(s3opts, s3.WithEndpoint(opts.endpoint))
		}
		s, err := s3.New(ctx, opts.bucket, s3opts...)
		if err != nil {
			return nil, fmt.Errorf("open s3 store: %w", err)
		}
		store = s
	case "minio":
		if opts.bucket == "" || opts.endpoint == "" {
			return nil, fmt.Errorf("--bucket and --endpoint are required for the minio store")
		}
		s, err := minio.New(minio.Config{
			Endpoint:  opts.endpoint,
			AccessKey: opts.accessKey,
			SecretKey: opts.secretKey,
			Region:    opts.region,
			Secure:    !opts.insecure,
		}, opts.bucket, opts.prefix)
		if err != nil {
			return nil, fmt.Errorf("open minio store: %w", err)
		}
		store = s
	default:
		return nil, fmt.Errorf("unknown --store %q (want local, s3 or minio)", opts.store)
	}

	if opts.blobCache > 0 {
		return blobstore.NewCachingStore(store, opts.blobCache)
	}
	return store, nil
}
