// Package log provides logging with automatic masking of Steam Web API
// keys and other credentials, built on top of the standard slog package.
//
// Every outbound request to the Steam Web API carries the operator's API
// key as a query parameter, and crawl logs routinely include request URLs.
// The SecureHandler masks the key both when it appears as a log attribute
// (api_key, token, ...) and when it is embedded in a logged URL, so logs
// can be shared for debugging without leaking credentials.
//
// Usage:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Info("resolving vanity url",
//	    "url", "https://api.steampowered.com/...?key=SECRET",  // key is masked
//	    "vanity", "gabelogannewell",
//	)
package log
