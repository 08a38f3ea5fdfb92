// Package io provides the integer streams that connect intcode processes.
//
// Each stream is identified by a Port and behaves as an unbounded FIFO queue:
// writers append at the tail and readers consume from the head.
package io

import (
	"iter"
)

// Port identifies a stream.
type Port int

// PORT_NONE marks an unwired process input or output.
const PORT_NONE = Port(-1)

// Stream is an ordered queue of integers backing a port.
type Stream struct {
	Port Port    // Port this stream backs.
	Data []int64 // Pending values, head first.
}

// NewStream creates a stream for a port, preloaded with values.
func NewStream(port Port, values ...int64) (stream *Stream) {
	stream = &Stream{
		Port: port,
		Data: append([]int64(nil), values...),
	}

	return
}

// Push appends a value at the tail of the stream.
func (s *Stream) Push(value int64) {
	s.Data = append(s.Data, value)
}

// Pop removes and returns the value at the head of the stream.
func (s *Stream) Pop() (value int64, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[1:]
	}
	return
}

// Peek returns the value at the head of the stream without removing it.
func (s *Stream) Peek() (value int64, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[0], true
}

// Last returns the most recently written value still in the stream.
func (s *Stream) Last() (value int64, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

func (s *Stream) Len() int {
	return len(s.Data)
}

func (s *Stream) Empty() bool {
	return len(s.Data) == 0
}

// Values iterates over the pending values, head first, without consuming them.
func (s *Stream) Values() iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		for _, value := range s.Data {
			if !yield(value) {
				return
			}
		}
	}
}

// Reset discards all pending values.
func (s *Stream) Reset() {
	s.Data = nil
}
