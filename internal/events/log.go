// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package events

// DefaultCapacity bounds the event buffer for one run panel.
const DefaultCapacity = 500

// Filter selects which correlated records a panel shows. Zero-value
// fields match everything; records with no correlation id are broadcast
// and always visible.
type Filter struct {
	AgentID   string
	RequestID string
}

// matches applies the correlation rules to one record.
func (f Filter) matches(r Record) bool {
	if r.AgentID == "" && r.RequestID == "" {
		return true // broadcast
	}
	if f.AgentID != "" && r.AgentID != "" && r.AgentID != f.AgentID {
		return false
	}
	if f.RequestID != "" && r.RequestID != "" && r.RequestID != f.RequestID {
		return false
	}
	return true
}

// Log is the bounded, append-only event buffer for one run. Internal
// order is chronological; the display layer reverses the rendered lines
// so the most recent entry comes first.
type Log struct {
	capacity int
	records  []Record
	filter   Filter
	evicted  int
}

// NewLog creates a log with the given capacity; zero or negative means
// DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity}
}

// Append adds a record, evicting the oldest once the buffer is full.
func (l *Log) Append(r Record) {
	l.records = append(l.records, r)
	if len(l.records) > l.capacity {
		overflow := len(l.records) - l.capacity
		l.records = l.records[overflow:]
		l.evicted += overflow
	}
}

// SetFilter sets the active agent/request correlation filter.
func (l *Log) SetFilter(f Filter) {
	l.filter = f
}

// Clear discards all buffered records.
func (l *Log) Clear() {
	l.records = nil
	l.evicted = 0
}

// Len returns the number of buffered records.
func (l *Log) Len() int {
	return len(l.records)
}

// Evicted returns how many records have been dropped to stay within
// capacity.
func (l *Log) Evicted() int {
	return l.evicted
}

// Visible returns the filtered records in chronological order.
func (l *Log) Visible() []Record {
	var out []Record
	for _, r := range l.records {
		if l.filter.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Lines renders the filtered records as transcript lines in
// chronological order. A chunk that reports lost data is preceded by a
// synthesized drop-notice line. Callers reverse the slice to display
// most recent first.
func (l *Log) Lines() []string {
	var lines []string
	for _, r := range l.records {
		if !l.filter.matches(r) {
			continue
		}
		if r.Type == TypeChunk && r.dropped() {
			lines = append(lines, r.dropLine())
		}
		lines = append(lines, r.Line())
	}
	return lines
}
