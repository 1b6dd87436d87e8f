// Package logtail reads the tail of the console's log file and decodes its
// JSON records for the Console Log screen.
//
// # Reading Log Files
//
// Read uses a ring buffer to keep only the last maxLines of a file in a
// single pass, so memory stays O(maxLines) regardless of file size. A
// non-positive maxLines returns the whole file. A file that does not exist
// yet yields nil without an error; the console creates its log lazily.
//
//	lines, err := logtail.Read(cfg.LogPath(), 400)
//
// Lines longer than 1 MiB fail the scan with "read log: token too long".
//
// # Decoding
//
// The console logs with zap's production encoder, one JSON object per line:
//
//	{"level":"warn","ts":1767225600.5,"logger":"poller","msg":"poll failed","error":"..."}
//
// ParseLine lifts level, ts, logger and msg into Entry and keeps every other
// key in Fields. Anything that is not a JSON object is returned with only Raw
// set, so a hand-edited or truncated log still renders.
//
// Styling is left to the ui package, which maps Entry.Level onto the active
// theme.
package logtail
