/*
Package session coordinates access to live sessions held by servers.

HTTP and MCP requests for the same respondent may arrive concurrently; the
Manager serializes them per session ID with a ref-counted lock map and, across
replicas, an optional distributed lock. Sessions are discarded once their record
is submitted.
*/
package session
