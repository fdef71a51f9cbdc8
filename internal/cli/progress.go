package cli

import (
	"context"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// spinnerInterval is how often the spinner advances.
const spinnerInterval = 100 * time.Millisecond

// WithSpinner runs fn while an indeterminate spinner described by
// description animates on w. The spinner is cleared before returning. When
// ctx is canceled first, WithSpinner returns ctx.Err() without waiting for fn.
func WithSpinner(ctx context.Context, w io.Writer, description string, fn func(context.Context) error) error {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(10),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			_ = bar.Finish()
			return err
		case <-ctx.Done():
			_ = bar.Finish()
			return ctx.Err()
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}
