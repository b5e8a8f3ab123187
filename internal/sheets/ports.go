package sheets

import (
	"context"

	"github.com/aakb/pretix-itk-export/internal/export"
)

// RowAppender delivers export rows to an external sheet so finance can
// review a report before the accounting system imports the file.
type RowAppender interface {
	AppendRows(ctx context.Context, rows []export.Row) error
}
