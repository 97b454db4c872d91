package validators

import (
	"fmt"
	"strings"

	"github.com/fastcommand/finance-backend/pkg/config"
	dbtypes "github.com/fastcommand/finance-backend/pkg/db/types"
	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
)

// ValidateAttachments enforces the attachment bounds at the HTTP boundary.
func ValidateAttachments(attachments dbtypes.Attachments, cfg config.AttachmentsConfig) error {
	if len(attachments) > cfg.MaxPerEntry {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("at most %d attachments allowed", cfg.MaxPerEntry))
	}
	maxBytes := cfg.MaxSizeBytes()
	for i, a := range attachments {
		if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.URL) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("attachments[%d] needs a name and url", i))
		}
		if a.Size > maxBytes {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("attachments[%d] exceeds the %dMB size limit", i, cfg.MaxSizeMB))
		}
	}
	return nil
}
