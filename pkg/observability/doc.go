/*
Package observability provides tools for monitoring the canvass engine.

It turns lifecycle hooks into structured log lines and Prometheus metrics, and
exposes the counters used by the sink metrics middleware.
*/
package observability
