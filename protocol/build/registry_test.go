package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForBuild(t *testing.T) {
	d := ForBuild(representativeBaseBuild)
	require.NotNil(t, d)
	assert.Same(t, representative, d)
}

func TestForBuildDuplicate(t *testing.T) {
	d := ForBuild(80958)
	require.NotNil(t, d)
	assert.Same(t, representative, d)
}

func TestForBuildUnknown(t *testing.T) {
	assert.Nil(t, ForBuild(1))
}

func TestTypeTableValidates(t *testing.T) {
	require.NoError(t, buildTypeTable().Validate())
}

func TestEventDescriptorsReferenceValidTypes(t *testing.T) {
	d := Default()
	for _, m := range []map[int64]EventDescriptor{d.GameEvents, d.MessageEvents, d.TrackerEvents} {
		for id, ev := range m {
			require.True(t, ev.TypeID >= 0 && ev.TypeID < len(d.Types), "event %d (%s) references out-of-range type %d", id, ev.Name, ev.TypeID)
		}
	}
}
