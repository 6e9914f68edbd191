// Package checkpoint persists the highest epoch whose queued requests have
// been fully applied. Commit never lowers the stored value.
package checkpoint

import (
	"strconv"
	"strings"

	id "contactledger/pkg/domain"
	dErrors "contactledger/pkg/domain-errors"
)

// Key is the fixed storage key of the checkpoint.
const Key = "contact_tracing_ocw::last_processed_block"

// Encode renders an epoch in its stored form.
func Encode(epoch id.EpochNumber) string {
	return strconv.FormatUint(uint64(epoch), 10)
}

// Decode parses a stored value.
//
// Errors: CodeCheckpointRead when the value is not a decimal epoch.
func Decode(raw string) (id.EpochNumber, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeCheckpointRead, "stored checkpoint is not a valid epoch")
	}
	return id.EpochNumber(n), nil
}
