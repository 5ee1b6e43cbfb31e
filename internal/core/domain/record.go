package domain

// Record is one unit of the length-prefixed wire format. On input it carries a
// raw payload; on output the compressed payload. A zero Length is the sentinel
// that ends a stream and never carries a payload.
type Record struct {
	// Index is the zero based position of the record in its stream.
	Index uint64

	// Length is the declared payload length as read from or written to the wire.
	Length uint32

	// Payload holds exactly Length bytes.
	Payload []byte
}

// IsSentinel reports whether the record terminates the stream.
func (r *Record) IsSentinel() bool {
	return r.Length == 0
}

// Outcome describes how a framing run ended without error.
type Outcome string

const (
	// OutcomeSentinel means a zero length record was read (Mode A clean finish).
	OutcomeSentinel Outcome = "SENTINEL"

	// OutcomeEndOfInput means input ran out before or inside a length field
	// (Mode A benign termination).
	OutcomeEndOfInput Outcome = "END_OF_INPUT"

	// OutcomeFinished means the compressed stream was flushed and finished (Mode B).
	OutcomeFinished Outcome = "FINISHED"
)

// Result summarizes a framing run. It is returned alongside errors too, in
// which case it describes the work completed before the failure.
type Result struct {
	Outcome  Outcome
	Records  uint64 // records mode: compressed records written; stream mode: input chunks fed to the session
	BytesIn  uint64 // raw payload bytes consumed
	BytesOut uint64 // bytes written to the output sink, headers included
}
