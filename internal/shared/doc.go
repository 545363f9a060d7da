// Package shared holds helpers used across packages that belong to no single
// layer. Its testutil subpackage provides log capture and rental data fixtures
// for tests:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    daily, hourly := testutil.WriteRentalFixtures(t, t.TempDir())
//	    ...
//	    testutil.AssertLogContains(t, logs, slog.LevelWarn, "reload failed")
//	}
package shared
