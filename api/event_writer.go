package api

import "sync"

// DecodeProgressWriter reports decode progress for a session as it
// streams in, broadcasting one event per batch of instructions decoded.
// It replaces the teacher's stdout/stderr-broadcasting EventWriter, which
// had no counterpart once there is no running process to capture output
// from.
type DecodeProgressWriter struct {
	broadcaster *Broadcaster
	sessionID   string
	total       int
	mu          sync.Mutex
	decoded     int
}

// NewDecodeProgressWriter creates a writer that reports progress for
// sessionID against an expected total instruction count. total may be
// zero if the size of the incoming trace is not known in advance.
func NewDecodeProgressWriter(broadcaster *Broadcaster, sessionID string, total int) *DecodeProgressWriter {
	return &DecodeProgressWriter{
		broadcaster: broadcaster,
		sessionID:   sessionID,
		total:       total,
	}
}

// Advance records that n more instructions have been decoded and
// broadcasts the updated progress.
func (w *DecodeProgressWriter) Advance(n int) {
	w.mu.Lock()
	w.decoded += n
	decoded := w.decoded
	w.mu.Unlock()

	w.broadcaster.BroadcastDecodeProgress(w.sessionID, decoded, w.total)
}

// Decoded returns the number of instructions reported so far.
func (w *DecodeProgressWriter) Decoded() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.decoded
}
