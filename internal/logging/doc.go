// Package logging provides file-based logging with rotation for the
// SATIRE indexer and querier. With the default configuration, JSON logs
// are written to ~/.satire/logs/<component>.log at every verbosity.
//
// The debug=N argument controls the rest: at debug=0 logs go to the
// file only, at debug=1 they are also copied to stderr, and at
// debug=2 or more debug-level messages are included as well.
package logging
