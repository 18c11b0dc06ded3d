/*
Package observability provides tools for monitoring the diagram engine.

It turns the model source lifecycle hooks and the dispatcher delivery hook into
Prometheus metrics and structured log lines.
*/
package observability
