package engine

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func collectEvents(t *testing.T, raw string) []StreamEvent {
	t.Helper()
	dec := NewStreamDecoder(strings.NewReader(raw))
	var events []StreamEvent
	for {
		ev, err := dec.Next()
		if err == io.EOF {
			return events
		}
		require.NoError(t, err)
		events = append(events, ev)
	}
}

func TestStreamDecoder_Framing(t *testing.T) {
	raw := "event: token\n" +
		"data: {\"content\":\"Hello\"}\n" +
		"\n" +
		"event: token\n" +
		"data: {\"content\":\" world\"}\n" +
		"\n" +
		"event: sources\n" +
		"data: [{\"title\":\"Chapter 1\"}]\n" +
		"\n" +
		"event: usage\n" +
		"data: {\"prompt_tokens\":120,\"completion_tokens\":45,\"total_tokens\":165}\n"

	events := collectEvents(t, raw)
	require.Len(t, events, 4)
	require.Equal(t, "token", events[0].Name)
	require.JSONEq(t, `{"content":"Hello"}`, string(events[0].Data))
	require.Equal(t, "token", events[1].Name)
	require.Equal(t, "sources", events[2].Name)
	require.Equal(t, "usage", events[3].Name)
	require.JSONEq(t, `{"prompt_tokens":120,"completion_tokens":45,"total_tokens":165}`, string(events[3].Data))
}

func TestStreamDecoder_BlankLineResetsEventName(t *testing.T) {
	raw := "event: token\n" +
		"data: {\"content\":\"a\"}\n" +
		"\n" +
		"data: {\"content\":\"orphan\"}\n"

	events := collectEvents(t, raw)
	require.Len(t, events, 2)
	require.Equal(t, "token", events[0].Name)
	require.Equal(t, "", events[1].Name)
}

func TestStreamDecoder_SkipsUnframedLines(t *testing.T) {
	raw := ": heartbeat comment\n" +
		"retry: 3000\n" +
		"event: token\n" +
		"data: {\"content\":\"x\"}\n"

	events := collectEvents(t, raw)
	require.Len(t, events, 1)
	require.Equal(t, "token", events[0].Name)
}

func TestStreamDecoder_NoFixedLineOrderAssumed(t *testing.T) {
	// usage before any token must still dispatch on its own event name.
	raw := "event: usage\n" +
		"data: {\"total_tokens\":5}\n" +
		"\n" +
		"event: token\n" +
		"data: {\"content\":\"late\"}\n"

	events := collectEvents(t, raw)
	require.Len(t, events, 2)
	require.Equal(t, "usage", events[0].Name)
	require.Equal(t, "token", events[1].Name)
}

func TestStreamDecoder_EmptyStream(t *testing.T) {
	dec := NewStreamDecoder(strings.NewReader(""))
	_, err := dec.Next()
	require.Equal(t, io.EOF, err)
}
