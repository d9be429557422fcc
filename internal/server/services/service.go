// Package services contains server-side business logic on top of the
// repositories: registration, login, token issuance, profile reads, and the
// message lifecycle. All store calls run under a config-supplied timeout.
package services

import (
	"context"
	"errors"

	"github.com/messagely/messagely/internal/common"
)

// mapStoreErr converts a store-boundary deadline into the retryable
// common.ErrorUnavailable kind; all other errors pass through unchanged.
func mapStoreErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return common.ErrorUnavailable
	}
	return err
}
