package documents

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/covenantlabs/covenant/pkg/formatting"
	"github.com/covenantlabs/covenant/pkg/pagination"
	"github.com/covenantlabs/covenant/pkg/query"
	"github.com/covenantlabs/covenant/pkg/repository"
	"github.com/covenantlabs/covenant/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	q := `
		INSERT INTO documents(id, filename, content_type, size_bytes, page_count, storage_key, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, filename, content_type, size_bytes, page_count, storage_key, content, status, uploaded_at, updated_at`

	insertArgs := []any{
		id,
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		cmd.PageCount,
		key,
		StatusProcessing,
	}

	d, err := repository.QueryOne(ctx, r.db, q, insertArgs, scanDocument)
	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created",
		"id", d.ID,
		"filename", d.Filename,
		"size", formatting.FormatBytes(d.SizeBytes, 1),
	)
	return &d, nil
}

func (r *repo) SetContent(ctx context.Context, id uuid.UUID, content string) (*Document, error) {
	if content == "" {
		return nil, ErrNoContent
	}

	q := `
		UPDATE documents
		SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, filename, content_type, size_bytes, page_count, storage_key, content, status, uploaded_at, updated_at`

	d, err := repository.QueryOne(ctx, r.db, q, []any{id, content}, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document content registered", "id", id, "length", len(content))
	return &d, nil
}

func (r *repo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE documents SET status = $2, updated_at = NOW() WHERE id = $1",
		id, status,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document status updated", "id", id, "status", status)
	return nil
}

func (r *repo) ClaimProcessing(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE documents SET status = $2, updated_at = NOW() WHERE id = $1 AND status <> $2",
		id, StatusProcessing,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, findErr := r.Find(ctx, id); findErr != nil {
				return findErr
			}
			return ErrBusy
		}
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document claimed for processing", "id", id)
	return nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	// Read the storage key and delete the row in one transaction so a
	// concurrent re-upload cannot leave the blob key stale.
	doc, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		q, args := query.NewBuilder(projection).BuildSingle("ID", id)
		d, err := repository.QueryOne(ctx, tx, q, args, scanDocument)
		if err != nil {
			return d, err
		}
		return d, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM documents WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, doc.StorageKey); delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", doc.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("documents/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "document"
	}
	return url.PathEscape(name)
}
