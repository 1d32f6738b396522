package parties

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/covenantlabs/covenant/pkg/query"
	"github.com/covenantlabs/covenant/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "extracted_parties", "p").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("parties", "Parties").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates an extracted-parties repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "parties"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Store(ctx context.Context, documentID uuid.UUID, names []string) (*Record, error) {
	if len(names) == 0 {
		return nil, ErrEmpty
	}

	partiesJSON, err := json.Marshal(names)
	if err != nil {
		return nil, fmt.Errorf("marshal parties: %w", err)
	}

	q := `
		INSERT INTO extracted_parties(id, document_id, parties)
		VALUES ($1, $2, $3)
		RETURNING id, document_id, parties, created_at`

	rec, err := repository.QueryOne(
		ctx, r.db, q,
		[]any{uuid.New(), documentID, partiesJSON},
		scanRecord,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"extracted parties stored",
		"id", rec.ID,
		"document_id", documentID,
		"count", len(names),
	)
	return &rec, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Record, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rec, nil
}

func (r *repo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Record, error) {
	docID := documentID
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("DocumentID", &docID).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query extracted parties for document %s: %w", documentID, err)
	}
	return items, nil
}

func scanRecord(s repository.Scanner) (Record, error) {
	var rec Record
	var partiesRaw []byte

	err := s.Scan(
		&rec.ID,
		&rec.DocumentID,
		&partiesRaw,
		&rec.CreatedAt,
	)

	if err != nil {
		return rec, err
	}

	if len(partiesRaw) > 0 {
		if err := json.Unmarshal(partiesRaw, &rec.Parties); err != nil {
			return rec, fmt.Errorf("unmarshal parties: %w", err)
		}
	}

	if rec.Parties == nil {
		rec.Parties = []string{}
	}

	return rec, nil
}
