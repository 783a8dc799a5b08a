package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncer_SkipsStaleRevisions(t *testing.T) {
	s := newSyncer()
	var saved []int

	r1 := s.next("k")
	r2 := s.next("k")

	skipped, err := s.run("k", r2, func() error { saved = append(saved, 2); return nil })
	require.NoError(t, err)
	assert.False(t, skipped)

	skipped, err = s.run("k", r1, func() error { saved = append(saved, 1); return nil })
	require.NoError(t, err)
	assert.True(t, skipped)

	assert.Equal(t, []int{2}, saved)
}

func TestSyncer_KeysAreIndependent(t *testing.T) {
	s := newSyncer()

	a := s.next("a")
	s.next("b")
	b := s.next("b")

	skipped, err := s.run("b", b, func() error { return nil })
	require.NoError(t, err)
	assert.False(t, skipped)

	skipped, err = s.run("a", a, func() error { return nil })
	require.NoError(t, err)
	assert.False(t, skipped)
}

func TestSyncer_FailedSaveCanBeRetriedByNewerRevision(t *testing.T) {
	s := newSyncer()

	r1 := s.next("k")
	_, err := s.run("k", r1, func() error { return errors.New("boom") })
	require.Error(t, err)

	r2 := s.next("k")
	skipped, err := s.run("k", r2, func() error { return nil })
	require.NoError(t, err)
	assert.False(t, skipped)
}
