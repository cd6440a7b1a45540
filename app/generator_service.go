package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"polysynth/domain/core"
	"polysynth/domain/dataset"
	"polysynth/domain/polynomial"
	"polysynth/domain/run"
	"polysynth/domain/variant"
	"polysynth/internal"
	"polysynth/internal/categorical"
	"polysynth/internal/config"
	"polysynth/internal/errors"
	"polysynth/internal/profiling"
	"polysynth/internal/target"
	"polysynth/ports"

	"golang.org/x/sync/errgroup"
)

// GeneratorService draws a polynomial, derives the target columns and
// materializes every enabled dataset variant of one run.
type GeneratorService struct {
	cfg       *config.Config
	rngPort   ports.RNGPort
	artifacts ports.ArtifactRepository
	catalog   ports.CatalogRepository
	binner    *categorical.Binner
	analyzer  *profiling.DistributionAnalyzer
	logger    *internal.Logger
}

// RunResult is the outcome of one generation run
type RunResult struct {
	Manifest     *run.Manifest
	ManifestPath string
	Dependent    profiling.Summary
	Attempts     int
	Duration     time.Duration
}

// NewGeneratorService creates a generator service. catalog may be nil when
// datasets are not registered anywhere.
func NewGeneratorService(
	cfg *config.Config,
	rngPort ports.RNGPort,
	artifacts ports.ArtifactRepository,
	catalog ports.CatalogRepository,
	logger *internal.Logger,
) *GeneratorService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &GeneratorService{
		cfg:       cfg,
		rngPort:   rngPort,
		artifacts: artifacts,
		catalog:   catalog,
		binner:    categorical.NewBinner(cfg.Categorical.Fraction),
		analyzer:  profiling.NewDistributionAnalyzer(),
		logger:    logger,
	}
}

// Run performs one generation run. Errors that invalidate the whole run
// (configuration, balance, degenerate polynomial) are returned before any
// artifact is written. Variant failures do not stop sibling variants; they
// are recorded in the manifest and reported together once all variants finish.
func (s *GeneratorService) Run(ctx context.Context, execID core.ExecutionID) (*RunResult, error) {
	startTime := time.Now()

	variants, err := variant.Enumerate(s.cfg.EnabledTargets(), s.cfg.EnabledProfiles())
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}

	sample, summary, attempts, err := s.drawSample(ctx)
	if err != nil {
		return nil, err
	}
	poly := sample.Polynomial
	expression := poly.Expression()

	s.logger.Info("Run %s: polynomial with %d variables and %d terms", execID, poly.NumVars(), poly.NumTerms())
	if s.logger.GetLevel() >= internal.LogLevelDebug {
		s.logger.Debug("Run %s: expression %s", execID, expression)
		s.logger.Debug("Run %s: dependent min=%.6g max=%.6g mean=%.6g median=%.6g distinct=%d duplicates=%d",
			execID, summary.Min, summary.Max, summary.Mean, summary.Median, summary.Distinct, summary.DuplicateCount())
	}

	table, err := sample.Table()
	if err != nil {
		return nil, errors.Wrap(err, "failed to lay out sample")
	}

	labeled := make(map[variant.TargetPolicy]*dataset.Table)
	for _, policy := range s.cfg.EnabledTargets() {
		out, err := target.Derive(table, policy)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive %s target", policy)
		}
		labeled[policy] = out
	}

	manifest := run.NewManifest(
		core.NewRunID(),
		execID,
		s.cfg.BaseName,
		s.cfg.Rows,
		poly.NumVars(),
		poly.NumTerms(),
		expression,
		s.rngPort.Seed(),
	)

	records := make([]run.VariantRecord, len(variants))
	failures := make([]error, len(variants))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, v := range variants {
		g.Go(func() error {
			records[i], failures[i] = s.materialize(gctx, v, labeled[v.Target], expression, manifest)
			return nil
		})
	}
	_ = g.Wait()

	for _, rec := range records {
		manifest.Record(rec)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manifestPath, err := s.artifacts.SaveManifest(ctx, manifest)
	if err != nil {
		return nil, errors.Wrap(err, "failed to save run manifest")
	}

	result := &RunResult{
		Manifest:     manifest,
		ManifestPath: manifestPath,
		Dependent:    summary,
		Attempts:     attempts,
		Duration:     time.Since(startTime),
	}

	failed := manifest.Failed()
	s.logger.Info("Run %s: %d of %d variants written in %v",
		execID, len(variants)-len(failed), len(variants), result.Duration)

	if len(failed) > 0 {
		return result, variantFailure(len(failed), len(variants), failures)
	}
	return result, nil
}

// drawSample draws polynomials until the dependent column can be split,
// giving up after max_attempts draws.
func (s *GeneratorService) drawSample(ctx context.Context) (*polynomial.Sample, profiling.Summary, int, error) {
	p := s.cfg.Polynomial
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, profiling.Summary{}, attempt, err
		}

		spec := polynomial.Define(s.rngPort, s.cfg.Bounds())
		poly := polynomial.Build(s.rngPort, spec, p.MinDegree, p.MaxDegree)

		sample, err := polynomial.Draw(s.rngPort, poly, s.cfg.Rows)
		if err != nil {
			return nil, profiling.Summary{}, attempt, errors.Wrap(err, "failed to evaluate polynomial")
		}

		summary, err := s.analyzer.Summarize(sample.Dependent)
		if err != nil {
			return nil, profiling.Summary{}, attempt, errors.Wrap(err, "failed to summarize dependent values")
		}

		if err := s.analyzer.CheckSpread(summary, p.MinDependentSpread); err != nil {
			s.logger.Warn("Polynomial draw %d/%d rejected: %v", attempt, p.MaxAttempts, err)
			lastErr = err
			continue
		}
		return sample, summary, attempt, nil
	}

	return nil, profiling.Summary{}, p.MaxAttempts,
		errors.DegeneratePolynomial(fmt.Sprintf("no usable polynomial after %d attempts", p.MaxAttempts), lastErr)
}

// materialize applies the variant's categorical profile to its labeled table
// and persists the result.
func (s *GeneratorService) materialize(
	ctx context.Context,
	v variant.Variant,
	labeled *dataset.Table,
	expression string,
	manifest *run.Manifest,
) (run.VariantRecord, error) {
	name := v.Name(s.cfg.BaseName, manifest.ExecutionID)
	cardinality := s.cfg.Cardinality(v.Profile)

	rec := run.VariantRecord{
		Name:               name,
		TargetPolicy:       v.Target.String(),
		CategoricalProfile: v.Profile.String(),
		Cardinality:        cardinality,
		CategoricalColumns: []string{},
		NumericColumns:     []string{},
	}

	fail := func(err error) (run.VariantRecord, error) {
		err = errors.Wrapf(err, "variant %s", name)
		rec.Status = run.StatusFailed
		rec.Error = err.Error()
		s.logger.Error("Variant %s failed: %v", name, err)
		return rec, err
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	if v.Profile != variant.NoCategorical && cardinality <= 0 {
		return fail(errors.CardinalityInvalid(core.NewCardinalityError(v.Profile.String(), cardinality)))
	}

	candidates := labeled.NamesOfKind(dataset.KindNumeric)
	out, chosen, err := s.binner.ApplyCardinality(labeled, candidates, cardinality)
	if err != nil {
		return fail(err)
	}

	rec.CategoricalColumns = chosen
	rec.NumericColumns = out.NamesOfKind(dataset.KindNumeric)
	metadata := dataset.NewMetadata(name, expression, rec.CategoricalColumns, rec.NumericColumns)

	stored, err := s.artifacts.SaveVariant(ctx, out, metadata)
	if err != nil {
		return fail(err)
	}
	rec.DatasetPath = stored.DatasetPath
	rec.MetadataPath = stored.MetadataPath

	if s.catalog != nil {
		entry := ports.CatalogEntry{
			Name:               name,
			RunID:              manifest.RunID,
			ExecutionID:        manifest.ExecutionID,
			TargetPolicy:       rec.TargetPolicy,
			CategoricalProfile: rec.CategoricalProfile,
			RowCount:           out.Rows(),
			DatasetPath:        stored.DatasetPath,
			Metadata:           metadata,
		}
		if err := s.catalog.Register(ctx, entry); err != nil {
			return fail(errors.DatabaseError("failed to register dataset", err))
		}
	}

	rec.Status = run.StatusWritten
	s.logger.Info("Wrote %s (%d categorical, %d numeric columns)", name, len(rec.CategoricalColumns), len(rec.NumericColumns))
	return rec, nil
}

// variantFailure reports every failed variant; the code of the first failure
// becomes the code of the run.
func variantFailure(failed, total int, failures []error) error {
	var errs []error
	code := errors.CodeInternalError
	for _, err := range failures {
		if err == nil {
			continue
		}
		if len(errs) == 0 {
			code = errors.GetCode(err)
		}
		errs = append(errs, err)
	}
	return errors.WithCode(code, fmt.Errorf("%d of %d variants failed: %w", failed, total, stderrors.Join(errs...)))
}
