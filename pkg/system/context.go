package system

import (
	"context"
	"time"
)

// Executes an operation with context awareness. It manages the lifecycle of
// the operation, ensuring proper completion or bounded interruption.
//
// The function handles three key scenarios:
//   - Normal completion: The operation finishes and its result is returned as is
//   - Error during the operation: The error is propagated to the caller unchanged
//   - Context cancellation: The operation is signaled to stop and given up to
//     grace to return before the caller stops waiting for it
//
// Returns:
//   - nil if the operation completes successfully.
//   - the operation's error if it fails, including after cancellation within grace.
//   - ctx.Err() if the operation is still running once grace has elapsed. The
//     operation's goroutine is abandoned at that point, which is what a framing
//     run blocked inside a read on an idle pipe needs.
func RunWithContext(ctx context.Context, grace time.Duration, operation func(context.Context) error) error {
	// Before starting any work, check if the context is already cancelled to
	// provide fast feedback if the run was cancelled before it began.
	if err := ctx.Err(); err != nil {
		return err
	}

	// Create an independent context for the operation.
	// This lets cancellation be delivered deliberately, after which the
	// operation still has the grace period to unwind.
	opCtx, cancel := context.WithCancel(context.Background())
	// Ensure the operation context is always cancelled to prevent a context leak.
	defer cancel()

	// Create a buffered channel to collect the operation result.
	// Using a buffered channel (size 1) ensures an abandoned goroutine can
	// still send its result and exit.
	done := make(chan error, 1)

	// Launch the operation in a separate goroutine so the caller can keep
	// watching ctx while it runs.
	go func() {
		done <- operation(opCtx)
	}()

	// Wait for either completion or cancellation of the parent context.
	select {
	case err := <-done:
		// Completed normally (success or error).
		// Return the result directly to keep the error chain intact.
		return err
	case <-ctx.Done():
		// Parent context was cancelled (e.g. SIGINT or SIGTERM).
		// Signal the operation to stop at its next checkpoint.
		cancel()
	}

	// Bound the wait. An operation blocked in I/O never reaches a checkpoint.
	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case err := <-done:
		// The operation noticed the cancellation and returned in time.
		return err
	case <-timer.C:
		// Give up on it and report why the run stopped.
		return ctx.Err()
	}
}
