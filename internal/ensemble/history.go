// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

package ensemble

import "time"

// historyCapacity bounds the rolling prediction history; the oldest entry
// is evicted first.
const historyCapacity = 1000

// Prediction is one audit record in the rolling history, retained for
// future calibration against observed outcomes. The history is not
// authoritative state.
type Prediction struct {
	AssetID     string
	Score       float64
	Confidence  float64
	GroundTruth *float64
	RecordedAt  time.Time
}

// history is a fixed-capacity ring buffer. Not safe for concurrent use;
// the engine serializes access.
type history struct {
	buf  []Prediction
	next int
	full bool
}

func newHistory() *history {
	return &history{buf: make([]Prediction, historyCapacity)}
}

func (h *history) append(p Prediction) {
	h.buf[h.next] = p
	h.next++
	if h.next == len(h.buf) {
		h.next = 0
		h.full = true
	}
}

func (h *history) len() int {
	if h.full {
		return len(h.buf)
	}
	return h.next
}

// snapshot returns the retained predictions oldest-first.
func (h *history) snapshot() []Prediction {
	if !h.full {
		out := make([]Prediction, h.next)
		copy(out, h.buf[:h.next])
		return out
	}
	out := make([]Prediction, 0, len(h.buf))
	out = append(out, h.buf[h.next:]...)
	out = append(out, h.buf[:h.next]...)
	return out
}
