// Package pipeline implements the document analysis pipeline: the delay
// policy and resilient invoker over the generation upstream, response
// validation, and the orchestrator that drives document and analysis records
// through their lifecycle.
package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/covenantlabs/covenant/internal/analyses"
	"github.com/covenantlabs/covenant/internal/documents"
	"github.com/covenantlabs/covenant/internal/parties"
	"github.com/covenantlabs/covenant/internal/prompts"
	"github.com/covenantlabs/covenant/internal/upstream"
)

// AnalyzeRequest identifies a document and the stance the analysis takes.
type AnalyzeRequest struct {
	DocumentID  uuid.UUID    `json:"document_id"`
	Perspective string       `json:"perspective"`
	Bias        prompts.Bias `json:"bias"`
}

// BatchResult reports the outcome of one request in a batch run. Analysis is
// set on success; Error carries the failure message otherwise.
type BatchResult struct {
	DocumentID uuid.UUID          `json:"document_id"`
	Analysis   *analyses.Analysis `json:"analysis,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// Orchestrator coordinates the pipeline across the document, analysis, and
// parties domains and the generation upstream.
type Orchestrator struct {
	cfg       Config
	upstream  upstream.System
	documents documents.System
	analyses  analyses.System
	parties   parties.System
	invoker   *Invoker
	logger    *slog.Logger
}

// NewOrchestrator creates an Orchestrator over the given systems.
func NewOrchestrator(
	cfg Config,
	up upstream.System,
	docs documents.System,
	an analyses.System,
	pt parties.System,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		upstream:  up,
		documents: docs,
		analyses:  an,
		parties:   pt,
		invoker:   NewInvoker(up, logger),
		logger:    logger.With("system", "pipeline"),
	}
}

// Handler returns the HTTP handler exposing the run endpoints.
func (o *Orchestrator) Handler() *Handler {
	return NewHandler(o, o.logger)
}

// Analyze runs a full analysis for the requested document. The document must
// have registered content. On success the completed analysis record is
// returned; a model rejection deletes the analysis record, fails the
// document, and surfaces a *RejectionError.
func (o *Orchestrator) Analyze(
	ctx context.Context,
	req AnalyzeRequest,
) (*analyses.Analysis, error) {
	if req.Bias == "" {
		req.Bias = prompts.BiasNeutral
	}

	doc, err := o.documents.Find(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}

	if !doc.HasContent() {
		return nil, documents.ErrNoContent
	}

	record, err := o.analyses.Create(ctx, analyses.CreateCommand{
		DocumentID:  doc.ID,
		Perspective: req.Perspective,
		Bias:        req.Bias,
	})
	if err != nil {
		return nil, err
	}

	if err := o.claimDocument(ctx, doc.ID); err != nil {
		if delErr := o.analyses.Delete(ctx, record.ID); delErr != nil {
			o.logger.Warn("orphaned analysis cleanup failed",
				"analysis", record.ID, "error", delErr)
		}
		return nil, err
	}

	if err := o.analyses.MarkStatus(ctx, record.ID, analyses.StatusProcessing); err != nil {
		o.failDocument(ctx, doc.ID)
		return nil, err
	}

	o.logger.Info("analysis started",
		"analysis", record.ID,
		"document", doc.ID,
		"perspective", req.Perspective,
		"bias", req.Bias,
	)

	outcome, err := o.runAnalysis(ctx, doc, req)
	if err != nil {
		var rejection *RejectionError
		if errors.As(err, &rejection) {
			return nil, o.reject(ctx, record.ID, doc.ID, rejection)
		}

		o.fail(ctx, record.ID, doc.ID)
		return nil, err
	}

	completed, err := o.analyses.Complete(ctx, record.ID, analyses.ResultCommand{
		Artifact:      *outcome.artifact,
		Elapsed:       outcome.elapsed,
		Retries:       outcome.attempts,
		PromptVersion: prompts.Version,
		ModelVersion:  o.upstream.ModelVersion(),
	})
	if err != nil {
		o.failDocument(ctx, doc.ID)
		return nil, err
	}

	if err := o.documents.SetStatus(ctx, doc.ID, documents.StatusCompleted); err != nil {
		o.logger.Warn("document completion mark failed",
			"document", doc.ID, "error", err)
	}

	o.logger.Info("analysis complete",
		"analysis", completed.ID,
		"document", doc.ID,
		"elapsed_ms", outcome.elapsed.Milliseconds(),
		"retries", outcome.attempts,
	)

	return completed, nil
}

// AnalyzeBatch runs analyses concurrently, bounded by the configured worker
// count. Every request produces a result; one failure never aborts the rest.
func (o *Orchestrator) AnalyzeBatch(
	ctx context.Context,
	reqs []AnalyzeRequest,
) []BatchResult {
	results := make([]BatchResult, len(reqs))

	var g errgroup.Group
	g.SetLimit(o.cfg.BatchWorkers)

	for i, req := range reqs {
		g.Go(func() error {
			results[i] = BatchResult{DocumentID: req.DocumentID}

			record, err := o.Analyze(ctx, req)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}

			results[i].Analysis = record
			return nil
		})
	}

	g.Wait()
	return results
}

// reject handles the distinguished non-legal-document verdict: the analysis
// record is removed rather than failed, the document fails, and the caller
// receives the rejection itself.
func (o *Orchestrator) reject(
	ctx context.Context,
	analysisID, documentID uuid.UUID,
	rejection *RejectionError,
) error {
	if err := o.analyses.Delete(ctx, analysisID); err != nil {
		o.logger.Warn("rejected analysis cleanup failed",
			"analysis", analysisID, "error", err)
	}

	o.failDocument(ctx, documentID)

	o.logger.Info("analysis rejected",
		"analysis", analysisID,
		"document", documentID,
		"note", rejection.Note,
	)

	return rejection
}

// fail moves both records to failed, best effort. The originating error is
// what the caller sees; persistence problems during failure marking are
// logged, not raised over it.
func (o *Orchestrator) fail(ctx context.Context, analysisID, documentID uuid.UUID) {
	if err := o.analyses.MarkStatus(ctx, analysisID, analyses.StatusFailed); err != nil {
		o.logger.Warn("analysis failure mark failed",
			"analysis", analysisID, "error", err)
	}

	o.failDocument(ctx, documentID)
}

func (o *Orchestrator) failDocument(ctx context.Context, documentID uuid.UUID) {
	if err := o.documents.SetStatus(ctx, documentID, documents.StatusFailed); err != nil {
		o.logger.Warn("document failure mark failed",
			"document", documentID, "error", err)
	}
}

// claimDocument moves the document into processing. With exclusive
// processing configured, the claim is a compare-and-set that surfaces
// ErrBusy when another run holds the document.
func (o *Orchestrator) claimDocument(ctx context.Context, documentID uuid.UUID) error {
	if o.cfg.ExclusiveProcessing {
		return o.documents.ClaimProcessing(ctx, documentID)
	}
	return o.documents.SetStatus(ctx, documentID, documents.StatusProcessing)
}
