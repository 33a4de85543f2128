// Package loader registers feature modules on the fiber app.
//
// A feature reports whether it is enabled from its own wiring: calendar needs
// a calendar service, feedsync needs at least one configured feed, health is
// always on. Disabled features are logged and skipped; the first Load error
// aborts startup.
//
//	m := loader.NewManager(logger)
//	m.Register(health.NewFeature(...))
//	m.Register(calendar.NewFeature(svc))
//	if err := m.LoadAll(app); err != nil {
//	    return err
//	}
package loader
