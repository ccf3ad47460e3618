/*
Package ports defines the interfaces through which hosts drive liftnav.

Adapters (HTTP, MCP, Redis, the terminal shell) depend on these interfaces instead
of the concrete Coordinator, so tests can substitute fakes and a host can wrap the
coordinator with its own policy.

# Key Interfaces

  - Reader: snapshot reads and observable streams.
  - Navigator: Reader plus the six mutation operations.
*/
package ports
