package access

import (
	"context"
	"errors"
	"fileshare/internal/core/domain"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Describe returns preview metadata without counting a download. Text files get a snippet of their head.
func (a *accessService) Describe(ctx context.Context, fileID uuid.UUID, requester *uuid.UUID) (*domain.FilePreview, error) {
	record, err := a.findReadable(ctx, fileID, requester)
	if err != nil {
		return nil, err
	}

	preview := &domain.FilePreview{Record: *record}
	if record.Category != domain.CategoryText {
		return preview, nil
	}

	head, err := a.content.ReadHead(ctx, record.StorageKey, snippetBytes)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: content missing", domain.ErrFileNotFound)
		}
		a.logger.Warn("failed to read preview snippet", "file_id", fileID, "error", err)
		return preview, nil
	}
	preview.Snippet = validPrefix(head)

	return preview, nil
}

// validPrefix drops a rune cut in half at the end of b
func validPrefix(b []byte) string {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			break
		}
		b = b[:len(b)-1]
	}
	return string(b)
}
