// Package logtail reads the tail of tally's own log file for the TUI log view.
//
// # Reading
//
// Read keeps a ring buffer of the last maxLines non-blank lines, so memory is
// bounded by the requested window rather than the file size. Lines come back
// oldest first. A missing file is not an error: the TUI simply has nothing to
// show until the first entry is written.
//
// # Decoding
//
// tally writes zap production JSON. Parse pulls out ts, level and msg, and
// keeps the remaining keys as string fields. Caller and stacktrace are
// dropped. Anything that is not a JSON object is passed through untouched.
//
//	entries, err := logtail.Read(cfg.LogFile, 200)
//	for _, e := range entries {
//		fmt.Println(e.Format()) // 14:03:11 WARN  transactions fetch failed wallet=W1
//	}
package logtail
