/*
Package domain contains the core navigation models of liftnav.

It defines the closed set of screen destinations the application can reach, the
navigation state (an ordered stack plus a current-position pointer), and the events
emitted when that state changes. The package is pure: no I/O, no goroutines and no
dependency on any adapter.

# Key Entities

  - Destination: a value-comparable description of one screen and its identifiers.
  - State: the stack of destinations and the index of the current one.
  - TransitionEvent: what a mutation did, delivered to LifecycleHooks.
  - Wire: the serialisable form of a Destination used by adapters.
*/
package domain
