package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/covenantlabs/covenant/pkg/pagination"
	"github.com/covenantlabs/covenant/pkg/query"
	"github.com/covenantlabs/covenant/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an analysis repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "analyses"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Analysis], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Perspective")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAnalysis)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Analysis, error) {
	docID := documentID
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("DocumentID", &docID).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("query analyses for document %s: %w", documentID, err)
	}
	return items, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Analysis, error) {
	q := `
		INSERT INTO analyses(id, document_id, status, perspective, bias)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, document_id, status, perspective, bias, result,
				  elapsed_ms, retries, prompt_version, model_version,
				  created_at, updated_at`

	args := []any{
		uuid.New(),
		cmd.DocumentID,
		string(StatusPending),
		cmd.Perspective,
		string(cmd.Bias),
	}

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAnalysis)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"analysis created",
		"id", a.ID,
		"document_id", a.DocumentID,
		"perspective", a.Perspective,
		"bias", a.Bias,
	)
	return &a, nil
}

// MarkStatus advances the analysis lifecycle. Terminal records are never
// modified: re-marking a terminal status is an idempotent no-op, while an
// attempt to move a terminal record elsewhere fails with ErrInvalidStatus.
func (r *repo) MarkStatus(ctx context.Context, id uuid.UUID, status Status) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE analyses
		 SET status = $2, updated_at = NOW()
		 WHERE id = $1 AND status NOT IN ('complete', 'failed')`,
		id, string(status),
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) && status.Terminal() {
			return nil
		}
		return repository.MapError(err, ErrInvalidStatus, ErrDuplicate)
	}

	r.logger.Info("analysis status updated", "id", id, "status", status)
	return nil
}

func (r *repo) Complete(ctx context.Context, id uuid.UUID, cmd ResultCommand) (*Analysis, error) {
	resultJSON, err := json.Marshal(cmd.Artifact)
	if err != nil {
		return nil, fmt.Errorf("marshal artifact: %w", err)
	}

	q := `
		UPDATE analyses
		SET status = 'complete', result = $2, elapsed_ms = $3, retries = $4,
			prompt_version = $5, model_version = $6, updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('complete', 'failed')
		RETURNING id, document_id, status, perspective, bias, result,
				  elapsed_ms, retries, prompt_version, model_version,
				  created_at, updated_at`

	args := []any{
		id,
		resultJSON,
		cmd.Elapsed.Milliseconds(),
		cmd.Retries,
		cmd.PromptVersion,
		cmd.ModelVersion,
	}

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAnalysis)
	if err != nil {
		return nil, repository.MapError(err, ErrInvalidStatus, ErrDuplicate)
	}

	riskScore := 0.0
	if cmd.Artifact.RiskScore != nil {
		riskScore = *cmd.Artifact.RiskScore
	}
	r.logger.Info(
		"analysis completed",
		"id", a.ID,
		"document_id", a.DocumentID,
		"risk_score", riskScore,
		"retries", cmd.Retries,
		"elapsed_ms", cmd.Elapsed.Milliseconds(),
	)
	return &a, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM analyses WHERE id = $1",
		id,
	); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("analysis deleted", "id", id)
	return nil
}
