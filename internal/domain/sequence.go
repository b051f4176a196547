package domain

import "errors"

// ErrOutOfRange reports a structural edit with an invalid position.
// The sequence is left untouched; positions are never clamped.
var ErrOutOfRange = errors.New("sequence: position out of range")

// Ordered, index-addressed container of stops. Purely structural: no
// evaluation side effects.
type Sequence struct {
	stops []Stop
}

func NewSequence(stops ...Stop) *Sequence {
	return &Sequence{stops: append([]Stop(nil), stops...)}
}

func (q *Sequence) Len() int { return len(q.stops) }

// At returns the stop at pos. Callers index within bounds; this mirrors
// slice semantics and panics otherwise.
func (q *Sequence) At(pos int) Stop { return q.stops[pos] }

// SetAt replaces the stop at pos.
func (q *Sequence) SetAt(pos int, s Stop) error {
	if pos < 0 || pos >= len(q.stops) {
		return ErrOutOfRange
	}
	q.stops[pos] = s
	return nil
}

func (q *Sequence) Front() Stop { return q.stops[0] }
func (q *Sequence) Back() Stop  { return q.stops[len(q.stops)-1] }

func (q *Sequence) PushBack(s Stop) { q.stops = append(q.stops, s) }

func (q *Sequence) PushFront(s Stop) {
	q.stops = append([]Stop{s}, q.stops...)
}

// Insert places s at pos, shifting later stops right. pos may equal Len
// (append).
func (q *Sequence) Insert(s Stop, pos int) error {
	if pos < 0 || pos > len(q.stops) {
		return ErrOutOfRange
	}
	q.stops = append(q.stops, Stop{})
	copy(q.stops[pos+1:], q.stops[pos:])
	q.stops[pos] = s
	return nil
}

// Erase removes the stop at pos.
func (q *Sequence) Erase(pos int) error {
	if pos < 0 || pos >= len(q.stops) {
		return ErrOutOfRange
	}
	q.stops = append(q.stops[:pos], q.stops[pos+1:]...)
	return nil
}

// Swap exchanges the stops at i and j.
func (q *Sequence) Swap(i, j int) error {
	if i < 0 || i >= len(q.stops) || j < 0 || j >= len(q.stops) {
		return ErrOutOfRange
	}
	q.stops[i], q.stops[j] = q.stops[j], q.stops[i]
	return nil
}

// PosOfNID returns the position of the stop with the given sequence-local
// id, or -1.
func (q *Sequence) PosOfNID(nid int) int {
	for i, s := range q.stops {
		if s.NID == nid {
			return i
		}
	}
	return -1
}

// PosOfID returns the position of the stop with the given user id, or -1.
func (q *Sequence) PosOfID(id int64) int {
	for i, s := range q.stops {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// HasID reports whether any stop carries the given user id.
func (q *Sequence) HasID(id int64) bool { return q.PosOfID(id) >= 0 }
