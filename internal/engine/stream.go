/*
PURPOSE:
  Pull-based decoder for the SSE-style event stream the target endpoint
  produces. Feeds on an incrementally-delivered response body and yields
  parsed `event:`/`data:` records one at a time.

REQUIREMENTS:
  User-specified:
  - Line framing is `event: <name>` followed by `data: <json>`.
  - Event names at minimum: token, sources, usage.

  Implementation-discovered:
  - The three event kinds must be treated as mutually exclusive per data
    line; no fixed line order across a streamed chunk can be assumed. The
    decoder tracks the most recent event name and dispatches each data
    line on that name only.
  - A blank line terminates an SSE record, so the current event name is
    reset there.
  - Streams can carry large data lines; the default bufio.Scanner limit
    (64K) is too small.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/client.go
  - Single-pass, one decoder per response body. Not restartable.

ERROR HANDLING:
  - Next returns io.EOF at end of stream and the underlying read error
    otherwise. Payload validity is the caller's concern; the decoder only
    frames lines.

IMPLEMENTATION RULES:
  - Use bufio.Scanner line scanning (same approach as plain NDJSON
    streaming, with the event-name state on top).

USAGE:
  dec := engine.NewStreamDecoder(resp.Body)
  for {
      ev, err := dec.Next()
      ...
  }

SELF-HEALING INSTRUCTIONS:
  - If the endpoint adds event kinds, no decoder change is needed; the
    client switches on ev.Name.

RELATED FILES:
  - internal/engine/client.go

MAINTENANCE:
  - Update if the endpoint moves off SSE framing.
*/

package engine

import (
	"bufio"
	"io"
	"strings"
)

// StreamEvent is one parsed record from the response stream.
type StreamEvent struct {
	Name string
	Data []byte
}

// StreamDecoder frames an SSE-style body into StreamEvents.
type StreamDecoder struct {
	scanner *bufio.Scanner
	event   string
}

// maxLineSize bounds a single streamed line (1 MiB).
const maxLineSize = 1 << 20

// NewStreamDecoder wraps a response body. The decoder is single-pass and
// owns no resources; closing the body remains the caller's job.
func NewStreamDecoder(r io.Reader) *StreamDecoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &StreamDecoder{scanner: sc}
}

// Next returns the next event in the stream. It returns io.EOF when the
// stream ends cleanly and the underlying read error otherwise. Lines that
// are neither `event:` nor `data:` are skipped.
func (d *StreamDecoder) Next() (StreamEvent, error) {
	for d.scanner.Scan() {
		line := d.scanner.Text()

		if line == "" {
			// End of SSE record.
			d.event = ""
			continue
		}

		if name, ok := strings.CutPrefix(line, "event:"); ok {
			d.event = strings.TrimSpace(name)
			continue
		}

		if data, ok := strings.CutPrefix(line, "data:"); ok {
			return StreamEvent{
				Name: d.event,
				Data: []byte(strings.TrimSpace(data)),
			}, nil
		}
	}

	if err := d.scanner.Err(); err != nil {
		return StreamEvent{}, err
	}
	return StreamEvent{}, io.EOF
}
