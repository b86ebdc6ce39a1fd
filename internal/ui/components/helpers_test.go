// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"
	"time"
)

func TestFmtNumber(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}

	for _, tt := range tests {
		if got := fmtNumber(tt.n); got != tt.want {
			t.Errorf("fmtNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFmtDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{850 * time.Millisecond, "850ms"},
		{time.Second, "1.0s"},
		{2500 * time.Millisecond, "2.5s"},
		{time.Minute + 5*time.Second, "1m05s"},
		{2*time.Minute + 30*time.Second, "2m30s"},
	}

	for _, tt := range tests {
		if got := fmtDuration(tt.d); got != tt.want {
			t.Errorf("fmtDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestMinMaxInt(t *testing.T) {
	if minInt(3, 7) != 3 || minInt(7, 3) != 3 {
		t.Error("minInt wrong")
	}
	if maxInt(3, 7) != 7 || maxInt(7, 3) != 7 {
		t.Error("maxInt wrong")
	}
}
