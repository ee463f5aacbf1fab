// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level storage errors and
// higher-level application errors.
package dberr

import (
	"context"
	"errors"
	"fmt"

	"github.com/taibuivan/tripora/internal/platform/apperr"
)

// Wrap classifies a storage backend error into an [apperr.AppError].
//
// The backend detail is kept as the cause for logging; the user only ever
// sees the generic internal message. 'action' names the failed operation.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// Already classified further down.
	if apperr.IsAppError(err) {
		return err
	}

	cause := fmt.Errorf("storage: %s: %w", action, err)

	// A remote backend that did not answer in time behaves like a dropped network.
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Network(cause)
	}

	return apperr.Internal(cause)
}
