package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/covenantlabs/covenant/internal/documents"
	"github.com/covenantlabs/covenant/internal/parties"
	"github.com/covenantlabs/covenant/internal/prompts"
)

// ExtractParties identifies the named parties in a document's content and
// stores them as an extraction record. Only a configurable prefix of the
// content is submitted; party names appear early in legal documents and the
// prefix keeps the prompt small. Any terminal failure marks the document
// failed.
func (o *Orchestrator) ExtractParties(
	ctx context.Context,
	documentID uuid.UUID,
) (*parties.Record, error) {
	doc, err := o.documents.Find(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if !doc.HasContent() {
		o.failDocument(ctx, doc.ID)
		return nil, documents.ErrNoContent
	}

	prompt := prompts.Extraction(prefix(*doc.Content, o.cfg.ExtractionPrefixChars))

	result, err := o.invoker.Invoke(ctx, prompt, o.cfg.ExtractionPolicy())
	if err != nil {
		o.failDocument(ctx, doc.ID)
		return nil, err
	}

	names, err := parsePartyList(result.Text)
	if err != nil {
		o.failDocument(ctx, doc.ID)
		return nil, err
	}

	record, err := o.parties.Store(ctx, doc.ID, names)
	if err != nil {
		o.failDocument(ctx, doc.ID)
		return nil, err
	}

	o.logger.Info("parties extracted",
		"document", doc.ID,
		"count", len(record.Parties),
		"retries", result.Attempts,
	)

	return record, nil
}

// prefix returns the first limit runes of content, never splitting a
// multi-byte character.
func prefix(content string, limit int) string {
	if len(content) <= limit {
		return content
	}
	count := 0
	for i := range content {
		if count == limit {
			return content[:i]
		}
		count++
	}
	return content
}
