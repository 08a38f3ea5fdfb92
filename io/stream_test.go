package io

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStream_New(t *testing.T) {
	assert := assert.New(t)

	s := NewStream(3)
	assert.Equal(Port(3), s.Port)
	assert.True(s.Empty())
	assert.Equal(0, s.Len())

	preload := []int64{5, 0}
	s = NewStream(4, preload...)
	assert.Equal(2, s.Len())

	// The stream owns its own copy of the preload.
	preload[0] = 99
	value, ok := s.Peek()
	assert.True(ok)
	assert.Equal(int64(5), value)
}

func TestStream_PushPop(t *testing.T) {
	assert := assert.New(t)

	s := NewStream(0)
	s.Push(1)
	s.Push(2)
	s.Push(3)
	assert.Equal(3, s.Len())

	for _, expected := range []int64{1, 2, 3} {
		value, ok := s.Pop()
		assert.True(ok)
		assert.Equal(expected, value)
	}

	value, ok := s.Pop()
	assert.False(ok)
	assert.Equal(int64(0), value)
	assert.True(s.Empty())
}

func TestStream_Peek_Empty(t *testing.T) {
	assert := assert.New(t)

	s := NewStream(0)
	value, ok := s.Peek()
	assert.False(ok)
	assert.Equal(int64(0), value)
}

func TestStream_Last(t *testing.T) {
	assert := assert.New(t)

	s := NewStream(0)
	_, ok := s.Last()
	assert.False(ok)

	s.Push(10)
	s.Push(-20)
	value, ok := s.Last()
	assert.True(ok)
	assert.Equal(int64(-20), value)
	assert.Equal(2, s.Len())
}

func TestStream_Values(t *testing.T) {
	assert := assert.New(t)

	s := NewStream(0, 7, 8, 9)
	assert.Equal([]int64{7, 8, 9}, slices.Collect(s.Values()))
	assert.Equal(3, s.Len())

	var first []int64
	for value := range s.Values() {
		first = append(first, value)
		break
	}
	assert.Equal([]int64{7}, first)
}

func TestStream_Reset(t *testing.T) {
	assert := assert.New(t)

	s := NewStream(0, 1, 2)
	s.Reset()
	assert.True(s.Empty())

	s.Push(4)
	value, ok := s.Pop()
	assert.True(ok)
	assert.Equal(int64(4), value)
}
