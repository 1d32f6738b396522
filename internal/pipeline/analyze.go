package pipeline

import (
	"context"
	"time"

	"github.com/covenantlabs/covenant/internal/analyses"
	"github.com/covenantlabs/covenant/internal/documents"
	"github.com/covenantlabs/covenant/internal/prompts"
)

// analysisOutcome carries a validated artifact and the processing metadata
// recorded alongside it.
type analysisOutcome struct {
	artifact *analyses.Artifact
	attempts int
	elapsed  time.Duration
}

// runAnalysis executes the generation half of an analysis run: render the
// prompt, invoke with the analysis retry policy, then parse and validate the
// response. Elapsed time covers invocation through validation.
func (o *Orchestrator) runAnalysis(
	ctx context.Context,
	doc *documents.Document,
	req AnalyzeRequest,
) (*analysisOutcome, error) {
	prompt := prompts.Analysis(prompts.AnalysisParams{
		Perspective: req.Perspective,
		Bias:        req.Bias,
		Content:     *doc.Content,
	})

	start := time.Now()

	result, err := o.invoker.Invoke(ctx, prompt, o.cfg.AnalysisPolicy())
	if err != nil {
		return nil, err
	}

	artifact, err := parseArtifact(result.Text)
	if err != nil {
		return nil, err
	}

	return &analysisOutcome{
		artifact: artifact,
		attempts: result.Attempts,
		elapsed:  time.Since(start),
	}, nil
}
