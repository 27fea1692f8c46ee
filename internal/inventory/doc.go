// Package inventory caches the dashboard and folder listings of a Grafana
// instance for the lifetime of one reconciliation session.
//
// Each list is fetched at most once, on first use, and then served from
// memory. A failed fetch is not cached. The cache is owned by a single
// facade instance; [Cache.Reset] is the only invalidation.
package inventory
