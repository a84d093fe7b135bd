// Package logtail reads the end of the client's own log file.
//
// The TUI writes its slog output to a file because it owns the terminal.
// Read streams that file once and keeps only the newest N entries at or
// above a minimum slog level, parsed from the level= field of the text
// handler format, so large logs are never loaded whole and N counts only
// the lines that survive the filter.
//
// Used by the logs command:
//
//	lines, err := logtail.Read(cfg.LogFile, 50, slog.LevelWarn)
package logtail
