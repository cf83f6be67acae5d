package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Fallback chains two clients: every request goes to Primary first and is
// retried once against Secondary when Primary fails. Both failing surfaces a
// joined error so callers see the full picture.
type Fallback struct {
	Primary   Client
	Secondary Client
	Logger    *slog.Logger
}

func NewFallback(primary, secondary Client, logger *slog.Logger) (*Fallback, error) {
	if primary == nil {
		return nil, fmt.Errorf("primary client is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{Primary: primary, Secondary: secondary, Logger: logger}, nil
}

func (f *Fallback) Chat(ctx context.Context, req Request) (Result, error) {
	if f == nil || f.Primary == nil {
		return Result{}, fmt.Errorf("fallback client is not initialized")
	}

	res, primaryErr := f.Primary.Chat(ctx, req)
	if primaryErr == nil {
		return res, nil
	}
	if f.Secondary == nil {
		return Result{}, primaryErr
	}

	f.Logger.Warn("primary provider failed, switching to fallback", "error", primaryErr)
	res, secondaryErr := f.Secondary.Chat(ctx, req)
	if secondaryErr != nil {
		return Result{}, errors.Join(primaryErr, secondaryErr)
	}
	return res, nil
}
