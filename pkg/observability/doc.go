/*
Package observability turns coordinator lifecycle events into metrics and audit logs.

Both producers are plain domain.LifecycleHooks, so they compose with domain.ChainHooks
and attach through liftnav.WithLifecycleHooks.
*/
package observability
