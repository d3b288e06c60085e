// Package config loads, normalizes, and validates the parbids configuration.
//
// Configuration lives in a TOML file (default ~/.config/parbids/config.toml,
// with ./parbids.toml as a project-local fallback). All path fields accept ~
// and are expanded during Load. The classification task table lives here so
// site-specific functional protocol names never require a code change.
package config
