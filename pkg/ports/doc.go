/*
Package ports defines the driven ports (interfaces) of the canvass engine.

These interfaces decouple the dialog core from the systems around it, so the same
engine can hand records to different sinks and keep live sessions in different
stores.

# Key Interfaces

  - Sink: receives the finished answer record and returns its ID.
  - SessionStore: holds live sessions for servers (HTTP, MCP) between requests.
  - DistributedLocker: serializes access to a session across replicas.
  - Engine: the public surface consumed by presentation adapters.
*/
package ports
