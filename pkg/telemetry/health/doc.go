// Package health runs readiness checks against the pieces a conversation
// depends on.
//
// A Checker holds named CheckFuncs and runs them concurrently, each under
// its own timeout. Results come back in registration order so the same
// report always prints the same way. A check that returns ErrDisabled is
// reported as "disabled" and does not degrade the overall status.
//
// # Usage
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("transcript", func(ctx context.Context) error {
//	    if store == nil {
//	        return health.ErrDisabled
//	    }
//	    return store.Ping(ctx)
//	})
//
//	report := checker.Run(ctx)
//	if !report.Healthy() {
//	    // at least one check failed
//	}
//
// The converse doctor command prints the report. When the metrics listener
// is enabled the same report is served as JSON by Handler.
package health
