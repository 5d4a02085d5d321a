// Package config loads the application settings.
//
// Settings come from three sources, later ones overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A settings file, TOML or YAML by extension
//  3. Environment variables prefixed with DRAFTSNAP_
//
// A file might look like:
//
//	[snap]
//	distance = 5
//	types = ["endpoint", "midpoint", "intersection"]
//
//	[logging]
//	level = "debug"
//
// and the same distance can be forced with DRAFTSNAP_SNAP_DISTANCE=8.
//
// Config.Watch reloads the file when it changes. Every setting that changed
// is published through the notify package; components subscribe to the
// paths they care about:
//
//	cfg.SubscribePath("snap.types", func(c notify.Change) { ... })
//
// # Sub-packages
//
//   - loader: file and environment decoding
//   - watcher: file change events for live reload
//   - notify: change subscriptions
package config
