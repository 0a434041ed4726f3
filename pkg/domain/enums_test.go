package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "warden/pkg/domain-errors"
)

// TestWireEnums verifies the enumerations that form the wire contract keep
// their exact string values.
func TestWireEnums(t *testing.T) {
	t.Run("inmate statuses", func(t *testing.T) {
		for _, want := range []string{"remand", "convict", "at_court", "released", "transferred", "escaped", "deceased"} {
			st, err := ParseInmateStatus(want)
			require.NoError(t, err)
			assert.Equal(t, want, st.String())
		}
	})

	t.Run("movement types", func(t *testing.T) {
		for _, want := range []string{"transfer", "hospital", "court", "work_party", "release"} {
			m, err := ParseMovementType(want)
			require.NoError(t, err)
			assert.Equal(t, want, m.String())
		}
	})

	t.Run("court outcomes", func(t *testing.T) {
		for _, want := range []string{"adjourned", "convicted", "acquitted", "bail_granted", "remanded"} {
			o, err := ParseCourtOutcome(want)
			require.NoError(t, err)
			assert.Equal(t, want, o.String())
		}
	})

	t.Run("release reasons", func(t *testing.T) {
		for _, want := range []string{"served", "bail", "acquitted", "pardon", "fine_paid"} {
			r, err := ParseReleaseReason(want)
			require.NoError(t, err)
			assert.Equal(t, want, r.String())
		}
	})

	t.Run("finger slots", func(t *testing.T) {
		fingers := Fingers()
		require.Len(t, fingers, 10)
		for _, f := range fingers {
			parsed, err := ParseFinger(f.String())
			require.NoError(t, err)
			assert.Equal(t, f, parsed)
		}
	})
}

func TestParseRejectsUnknownValues(t *testing.T) {
	cases := []struct {
		name  string
		parse func(string) error
	}{
		{"status", func(s string) error { _, err := ParseInmateStatus(s); return err }},
		{"movement type", func(s string) error { _, err := ParseMovementType(s); return err }},
		{"outcome", func(s string) error { _, err := ParseCourtOutcome(s); return err }},
		{"release reason", func(s string) error { _, err := ParseReleaseReason(s); return err }},
		{"photo provider", func(s string) error { _, err := ParsePhotoProvider(s); return err }},
		{"fingerprint provider", func(s string) error { _, err := ParseFingerprintProvider(s); return err }},
		{"finger", func(s string) error { _, err := ParseFinger(s); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.parse("bogus")
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

			err = tc.parse("")
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

// The fingerprint provider set differs from the photo provider set by design:
// external fingerprint captures carry template data, not a URL.
func TestProviderSetsAreDistinct(t *testing.T) {
	_, err := ParsePhotoProvider("external")
	require.Error(t, err)

	_, err = ParseFingerprintProvider("external_url")
	require.Error(t, err)
}
