package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/BadgerOps/fxsnap/internal/archive"
	"github.com/BadgerOps/fxsnap/internal/config"
	"github.com/BadgerOps/fxsnap/internal/download"
	"github.com/BadgerOps/fxsnap/internal/snapshot"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Fetcher retrieves the raw body of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*download.FetchResult, error)
}

// Archiver runs one archival pass over the configured sources.
type Archiver struct {
	sources     []config.Source
	readmeTitle string
	builder     *snapshot.Builder
	writer      *archive.Writer
	fs          afero.Fs
	fetcher     Fetcher
	clock       snapshot.Clock
	out         io.Writer
	logger      *slog.Logger
}

// Options wires an Archiver.
type Options struct {
	Sources     []config.Source
	BaseDir     string
	Layout      snapshot.Layout
	ReadmeTitle string
	Fs          afero.Fs       // defaults to the OS filesystem
	Fetcher     Fetcher        // required
	Clock       snapshot.Clock // defaults to the system clock
	Out         io.Writer      // operator console; defaults to io.Discard
	Logger      *slog.Logger   // defaults to slog.Default()
}

// NewArchiver creates an Archiver from opts.
func NewArchiver(opts Options) *Archiver {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Clock == nil {
		opts.Clock = snapshot.SystemClock{}
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Layout == "" {
		opts.Layout = snapshot.LayoutDated
	}

	return &Archiver{
		sources:     opts.Sources,
		readmeTitle: opts.ReadmeTitle,
		builder:     snapshot.NewBuilder(opts.Fs, opts.BaseDir, opts.Layout, opts.Clock),
		writer:      archive.NewWriter(opts.Fs),
		fs:          opts.Fs,
		fetcher:     opts.Fetcher,
		clock:       opts.Clock,
		out:         opts.Out,
		logger:      opts.Logger,
	}
}

// NewFromConfig builds the production Archiver: OS filesystem, system clock
// and a retrying HTTP client configured from cfg.
func NewFromConfig(cfg *config.Config, out io.Writer, logger *slog.Logger) (*Archiver, error) {
	layout, err := snapshot.ParseLayout(cfg.Output.Layout)
	if err != nil {
		return nil, err
	}

	client := download.NewClient(download.Options{
		Headers:       cfg.Fetch.Headers,
		Timeout:       cfg.Fetch.Timeout(),
		RetryAttempts: cfg.Fetch.RetryAttempts,
		BackoffUnit:   cfg.Fetch.BackoffUnit(),
		MaxBodySize:   cfg.Fetch.BodyLimit(),
	}, logger)

	return NewArchiver(Options{
		Sources:     cfg.Sources,
		BaseDir:     cfg.Output.BaseDir,
		Layout:      layout,
		ReadmeTitle: cfg.Output.ReadmeTitle,
		Fetcher:     client,
		Out:         out,
		Logger:      logger,
	}), nil
}

// Plan returns the folder a run would use right now, without creating it.
func (a *Archiver) Plan() snapshot.Folder {
	return a.builder.Plan()
}

// Run prepares the snapshot folder, archives every source in order and
// writes the README. Per-source failures are recorded in the report and do
// not stop the run. An error is returned only when the folder or the README
// cannot be written.
func (a *Archiver) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartTime: a.clock.Now(),
	}
	log := a.logger.With("run_id", report.RunID)

	folder, err := a.builder.Prepare()
	if err != nil {
		return nil, err
	}
	report.Folder = folder.Path
	report.Timestamp = folder.Timestamp

	fmt.Fprintf(a.out, "Snapshot folder: %s\n", folder.Path)
	log.Info("snapshot folder prepared", "path", folder.Path, "sources", len(a.sources))

	for _, src := range a.sources {
		res := a.archiveSource(ctx, folder.Path, src)
		report.Results = append(report.Results, res)

		if res.Err != nil {
			fmt.Fprintf(a.out, "WARNING: failed to save %s: %v\n", src.Name, res.Err)
			log.Warn("source failed", "source", src.Name, "url", src.URL, "error", res.Err)
			continue
		}
		fmt.Fprintf(a.out, "Saved %s (%d KB)\n", res.Saved.Path, res.Saved.KB())
		log.Info("source saved", "source", src.Name, "path", res.Saved.Path,
			"bytes", res.Saved.Size, "attempts", res.Attempts)
	}

	readme, err := archive.WriteReadme(a.fs, folder.Path, archive.Manifest{
		Title:     a.readmeTitle,
		Timestamp: folder.Timestamp,
		Files:     report.SavedPaths(),
	})
	if err != nil {
		return report, err
	}
	report.Readme = readme
	report.EndTime = a.clock.Now()

	fmt.Fprintln(a.out, "Done.")
	log.Info("run complete", "status", report.Status(),
		"saved", len(report.Saved()), "failed", len(report.Failed()),
		"duration", report.EndTime.Sub(report.StartTime).Round(time.Millisecond))

	return report, nil
}

// archiveSource fetches one source and writes it into folder.
func (a *Archiver) archiveSource(ctx context.Context, folder string, src config.Source) SourceResult {
	res := SourceResult{Source: src}

	fetched, err := a.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		res.Err = fmt.Errorf("fetch: %w", err)
		return res
	}
	res.Attempts = fetched.Attempts

	saved, err := a.writer.Save(folder, src.Name, src.Extension, fetched.Body)
	if err != nil {
		res.Err = fmt.Errorf("write: %w", err)
		return res
	}
	res.Saved = &saved
	return res
}
