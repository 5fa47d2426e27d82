// Package pipeline runs the full curve analysis: smoothing, baseline
// correction, contact detection, indentation, elastic fit and optional
// hysteresis, in fixed order.
package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/baseline"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/contact"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/core"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/curve"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/fit"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/hysteresis"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/indent"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/smooth"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/pkg/config"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/pkg/logger"
)

// Result is the aggregate record produced per curve. It is immutable once
// returned and is the row unit for batch aggregation.
type Result struct {
	// ID identifies this analysis for batch aggregation.
	ID string `json:"id"`
	// Source names the input (file path or synthetic label); set by the
	// caller, empty for direct API use.
	Source string `json:"source,omitempty"`
	// Contact is the detected contact point.
	Contact curve.ContactPoint `json:"contact"`
	// Fit is the elastic model fit.
	Fit *fit.Result `json:"fit"`
	// Hysteresis is nil when no retract sweep was supplied.
	Hysteresis *hysteresis.Result `json:"hysteresis,omitempty"`
	// MaxIndentation is the deepest indentation reached, in meters.
	MaxIndentation float64 `json:"max_indentation"`
	// Noise summarizes the tail-noise spectrum; nil for short tails.
	Noise *baseline.NoiseDiagnostic `json:"noise,omitempty"`
	// Flags merges the quality warnings of all stages.
	Flags []core.QualityFlag `json:"flags,omitempty"`
}

// Pipeline analyzes one curve per Analyze call. A Pipeline is stateless
// between calls and safe for concurrent use: every stage is a pure function
// of its inputs and the immutable configuration.
type Pipeline struct {
	smoother   smooth.Smoother
	corrector  baseline.Corrector
	detector   contact.Detector
	calculator indent.Calculator
	fitter     fit.Fitter
	analyzer   hysteresis.Analyzer
}

// New builds a pipeline from a validated analysis configuration.
func New(cfg config.AnalysisConfig) (*Pipeline, error) {
	kind, err := fit.ParseKind(cfg.ModelType)
	if err != nil {
		return nil, err
	}
	model, err := fit.NewModel(kind, cfg.Radius, cfg.HalfAngleDeg, cfg.PoissonRatio)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		smoother:   smooth.New(cfg.SmoothingWindow, cfg.SmoothingOrder),
		corrector:  baseline.New(cfg.TailFraction),
		detector:   contact.New(cfg.ContactThreshold, cfg.ContactRun),
		calculator: indent.New(cfg.SpringConstant),
		fitter:     fit.NewFitter(model, cfg.FitMaxIterations, cfg.FitTolerance),
		analyzer:   hysteresis.New(),
	}, nil
}

// Analyze processes one approach sweep and an optional retract sweep.
// Failure of any hard stage short-circuits into a typed error carrying the
// stage name; hysteresis trouble only costs the supplementary output.
func (p *Pipeline) Analyze(ctx context.Context, approach curve.RawCurve, retract *curve.RawCurve) (*Result, error) {
	log := logger.FromContext(ctx)

	smoothed, err := p.smoother.Smooth(approach.Force)
	if err != nil {
		return nil, core.NewStageError(core.StageSmoothing, err)
	}

	pc, err := p.corrector.Correct(approach, smoothed)
	if err != nil {
		return nil, core.NewStageError(core.StageBaseline, err)
	}

	cp, err := p.detector.Detect(pc)
	if err != nil {
		return nil, core.NewStageError(core.StageContact, err)
	}
	log.Debug("contact detected", "index", cp.Index, "z0", cp.Z0, "sigma", pc.TailSigma)

	series, err := p.calculator.Series(pc, cp)
	if err != nil {
		return nil, core.NewStageError(core.StageIndentation, err)
	}

	fitResult, err := p.fitter.Fit(series)
	if err != nil {
		return nil, core.NewStageError(core.StageFit, err)
	}
	log.Debug("elastic fit converged",
		"modulus", fitResult.Params.Modulus,
		"stderr", fitResult.StdErr,
		"r_squared", fitResult.RSquared,
		"iterations", fitResult.Iterations)

	result := &Result{
		ID:             uuid.NewString(),
		Contact:        cp,
		Fit:            fitResult,
		MaxIndentation: series.MaxDepth(),
		Noise:          baseline.DiagnoseNoise(baseline.TailResiduals(pc)),
		Flags:          append([]core.QualityFlag(nil), fitResult.Flags...),
	}

	if hr := p.analyzeRetract(log, pc, cp, series, retract); hr != nil {
		result.Hysteresis = hr
		if hr.Degenerate {
			result.Flags = append(result.Flags, core.QualityDegenerateHysteresis)
		}
	}

	return result, nil
}

// analyzeRetract builds the retract indentation series with the approach's
// baseline and contact point, then runs the hysteresis analyzer. Any
// failure here is logged and swallowed: hysteresis is supplementary output
// and never aborts the pipeline.
func (p *Pipeline) analyzeRetract(log logger.Logger, pc curve.ProcessedCurve, cp curve.ContactPoint, approachSeries curve.IndentationSeries, retract *curve.RawCurve) *hysteresis.Result {
	if retract == nil {
		return nil
	}

	smoothed, err := p.smoother.Smooth(retract.Force)
	if err != nil {
		log.Warn("retract smoothing failed, skipping hysteresis", "error", err)
		return nil
	}
	corrected := pc.ApplyBaseline(retract.Displacement, smoothed)

	retractSeries, err := p.calculator.SeriesAt(retract.Displacement, corrected, cp.Z0)
	if err != nil {
		log.Warn("retract indentation failed, skipping hysteresis", "error", err)
		return nil
	}

	return p.analyzer.Analyze(approachSeries, &retractSeries)
}
