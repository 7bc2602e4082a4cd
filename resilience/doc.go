// Package resilience retries operations with exponential backoff. Store
// components use it to ride out a backend that is still starting when the
// service boots.
//
//	err := resilience.Retry(ctx, resilience.RetryConfig{MaxAttempts: 5}, func(ctx context.Context) error {
//	    return client.Ping(ctx)
//	})
package resilience
