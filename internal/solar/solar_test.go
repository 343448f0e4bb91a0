package solar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunsizer/sunsizer/internal/refdata"
)

func TestResolveVariantsAllHitTheSameEntry(t *testing.T) {
	snapshot, err := refdata.Load()
	require.NoError(t, err)

	for _, input := range []string{"İstanbul", "Istanbul", "Ýstanbul", "istanbul", "ISTANBUL", "  İstanbul  "} {
		canonical, specificYield, err := Resolve(input, snapshot)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, "İstanbul", canonical, "input %q", input)
		assert.Greater(t, specificYield, 0.0)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	snapshot, err := refdata.Load()
	require.NoError(t, err)

	canonical, _, err := Resolve("Sanliurfa", snapshot)
	require.NoError(t, err)

	again, _, err := Resolve(canonical, snapshot)
	require.NoError(t, err)
	assert.Equal(t, canonical, again)
}

func TestResolveDiacriticFold(t *testing.T) {
	snapshot, err := refdata.Load()
	require.NoError(t, err)

	canonical, _, err := Resolve("mugla", snapshot)
	require.NoError(t, err)
	assert.Equal(t, "Muğla", canonical)

	canonical, _, err = Resolve("eskisehir", snapshot)
	require.NoError(t, err)
	assert.Equal(t, "Eskişehir", canonical)
}

func TestResolveUnknownLocation(t *testing.T) {
	snapshot, err := refdata.Load()
	require.NoError(t, err)

	_, _, err = Resolve("Atlantis", snapshot)
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestBuildProfileInvariants(t *testing.T) {
	snapshot, err := refdata.Load()
	require.NoError(t, err)

	profile, err := Build("Antalya", 8, snapshot)
	require.NoError(t, err)

	specificYield, ok := snapshot.YieldFor("Antalya")
	require.True(t, ok)
	assert.Equal(t, "Antalya", profile.CanonicalLocation)
	assert.InDelta(t, 8*specificYield, profile.AnnualKWh, 1e-9)
	assert.InDelta(t, profile.AnnualKWh/365.0, profile.DailyAvgKWh, 1e-9)
}

func TestBuildZeroPV(t *testing.T) {
	snapshot, err := refdata.Load()
	require.NoError(t, err)

	profile, err := Build("Ankara", 0, snapshot)
	require.NoError(t, err)
	assert.Equal(t, 0.0, profile.AnnualKWh)
	assert.Equal(t, 0.0, profile.DailyAvgKWh)
}
