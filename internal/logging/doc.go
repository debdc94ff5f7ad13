// Package logging configures slog for the datashed CLI.
//
// By default nothing is logged, so quiet and normal runs keep both standard
// streams clean apart from progress output. --verbose adds a text handler on
// stderr; --debug writes JSON records to a size-rotated file under
// ~/.datashed/logs/.
package logging
