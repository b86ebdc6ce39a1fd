// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package events

import (
	"reflect"
	"testing"
	"time"
)

func chunk(agentID, text string) Record {
	return Record{TS: time.Now(), Type: TypeChunk, AgentID: agentID, Text: text}
}

func TestLogAppendAndEviction(t *testing.T) {
	l := NewLog(3)

	for _, text := range []string{"a", "b", "c", "d", "e"} {
		l.Append(chunk("", text))
	}

	if l.Len() != 3 {
		t.Fatalf("Len = %d, want 3", l.Len())
	}
	if l.Evicted() != 2 {
		t.Errorf("Evicted = %d, want 2", l.Evicted())
	}
	// Oldest records are gone, order is chronological.
	if got, want := l.Lines(), []string{"c", "d", "e"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Lines = %v, want %v", got, want)
	}
}

func TestLogBroadcastAlwaysVisible(t *testing.T) {
	l := NewLog(10)
	l.SetFilter(Filter{AgentID: "agent-1"})

	l.Append(chunk("", "broadcast line"))
	l.Append(chunk("agent-1", "mine"))
	l.Append(chunk("agent-2", "other"))

	want := []string{"broadcast line", "mine"}
	if got := l.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines = %v, want %v", got, want)
	}
}

func TestLogRequestFilter(t *testing.T) {
	l := NewLog(10)
	l.SetFilter(Filter{RequestID: "req-7"})

	l.Append(Record{Type: TypeChunk, RequestID: "req-7", Text: "match"})
	l.Append(Record{Type: TypeChunk, RequestID: "req-8", Text: "no match"})

	if got := l.Lines(); len(got) != 1 || got[0] != "match" {
		t.Errorf("Lines = %v, want [match]", got)
	}
}

func TestLogDropNoticePrecedesChunk(t *testing.T) {
	l := NewLog(10)

	l.Append(chunk("", "clean line"))
	l.Append(Record{
		Type:         TypeChunk,
		Text:         "lossy line",
		DroppedBytes: 120,
		DroppedLines: 3,
	})

	want := []string{
		"clean line",
		"[drop] 120 bytes, 3 lines lost",
		"lossy line",
	}
	if got := l.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines = %v, want %v", got, want)
	}
}

func TestLogNoDropNoticeForZeroCounters(t *testing.T) {
	l := NewLog(10)
	l.Append(chunk("", "ordinary"))

	if got := l.Lines(); len(got) != 1 {
		t.Errorf("Lines = %v, want a single line", got)
	}
}

func TestLogAnnotatedLines(t *testing.T) {
	l := NewLog(10)

	l.Append(Record{Type: TypeResult, Payload: map[string]any{"status": "ok"}})
	l.Append(Record{Type: TypeAck, Payload: map[string]any{"op": "cancel"}})
	l.Append(Record{Type: TypeDisconnect})

	want := []string{
		`[result] {"status":"ok"}`,
		`[ack] {"op":"cancel"}`,
		`[disconnect] {}`,
	}
	if got := l.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines = %v, want %v", got, want)
	}
}

func TestLogClear(t *testing.T) {
	l := NewLog(10)
	l.Append(chunk("", "x"))
	l.Clear()

	if l.Len() != 0 {
		t.Errorf("Len = %d after Clear, want 0", l.Len())
	}
	if lines := l.Lines(); len(lines) != 0 {
		t.Errorf("Lines = %v after Clear, want empty", lines)
	}
}

func TestDecodeWire(t *testing.T) {
	data := []byte(`{"type":"chunk","agentId":"a1","requestId":"r1","ts":1700000000000,"text":"hi","droppedBytes":4}`)

	rec, err := decodeWire(data)
	if err != nil {
		t.Fatalf("decodeWire failed: %v", err)
	}
	if rec.Type != TypeChunk || rec.AgentID != "a1" || rec.RequestID != "r1" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Text != "hi" || rec.DroppedBytes != 4 {
		t.Errorf("unexpected record body: %+v", rec)
	}
	if rec.TS.UnixMilli() != 1700000000000 {
		t.Errorf("TS = %v, want 1700000000000ms", rec.TS.UnixMilli())
	}
}

func TestDecodeWireRejectsGarbage(t *testing.T) {
	if _, err := decodeWire([]byte("not json")); err == nil {
		t.Error("expected error for malformed frame")
	}
	if _, err := decodeWire([]byte(`{"text":"no type"}`)); err == nil {
		t.Error("expected error for missing type")
	}
}
