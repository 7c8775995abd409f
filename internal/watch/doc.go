// Package watch re-runs the launcher when the native sources change or on a
// fixed interval. Triggers from either source feed one Serial executor, so
// runs never overlap and bursts collapse into a single follow-up run.
package watch
