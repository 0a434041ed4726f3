package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "warden/pkg/domain-errors"
)

func TestNewSubject(t *testing.T) {
	t.Run("inmate subject requires inmate reference", func(t *testing.T) {
		_, err := NewSubject(SubjectInmate, InmateID{}, NewOfficerID())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("officer subject requires officer reference", func(t *testing.T) {
		_, err := NewSubject(SubjectOfficer, NewInmateID(), OfficerID{})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("resolves to the declared side only", func(t *testing.T) {
		inmateID := NewInmateID()
		subj, err := NewSubject(SubjectInmate, inmateID, NewOfficerID())
		require.NoError(t, err)

		got, ok := subj.InmateID()
		require.True(t, ok)
		assert.Equal(t, inmateID, got)

		_, ok = subj.OfficerID()
		assert.False(t, ok)
	})

	t.Run("rejects unknown subject type", func(t *testing.T) {
		_, err := NewSubject("visitor", NewInmateID(), OfficerID{})
		require.Error(t, err)
	})
}

func TestSubjectKey(t *testing.T) {
	inmateID := NewInmateID()
	a := InmateSubject(inmateID)
	b := InmateSubject(inmateID)
	c := OfficerSubject(NewOfficerID())

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
