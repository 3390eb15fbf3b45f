// Package config defines the crawl configuration surface: defaults,
// validation, and the optional .batman YAML file.
//
// Configuration precedence is defaults < .batman file < CLI flags.
// The resulting Config is passed by dependency injection; nothing in
// this package holds global state.
package config
