package beamrt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetCoreTypeAppleSilicon(t *testing.T) {
	require.Equal(t, CorePerformance, GetCoreTypeAppleSilicon(0))
	require.Equal(t, CorePerformance, GetCoreTypeAppleSilicon(7))
	require.Equal(t, CoreEfficiency, GetCoreTypeAppleSilicon(8))
	require.Equal(t, CoreEfficiency, GetCoreTypeAppleSilicon(15))
	require.Equal(t, CoreUnknown, GetCoreTypeAppleSilicon(16))
	require.Equal(t, CoreUnknown, GetCoreTypeAppleSilicon(-1))
}

func TestGetCoreClusterAppleSilicon(t *testing.T) {
	require.Equal(t, 0, GetCoreClusterAppleSilicon(0))
	require.Equal(t, 1, GetCoreClusterAppleSilicon(8))
	require.Equal(t, 0, GetCoreClusterAppleSilicon(100))
}

func TestIsPerformanceCoreAppleSilicon(t *testing.T) {
	require.Equal(t, 1, IsPerformanceCoreAppleSilicon(0))
	require.Equal(t, 0, IsPerformanceCoreAppleSilicon(8))
	require.Equal(t, 0, IsPerformanceCoreAppleSilicon(100))
}

func TestGetOptimalCoreAppleSilicon(t *testing.T) {
	require.Equal(t, 0, GetOptimalCoreAppleSilicon(ProcessCPUIntensive))
	require.Equal(t, 8, GetOptimalCoreAppleSilicon(ProcessIOBound))
	require.Equal(t, 0, GetOptimalCoreAppleSilicon(ProcessMixed))
	require.Equal(t, 0, GetOptimalCoreAppleSilicon(ProcessType(99)))
}

func TestGetCacheLineSizeAppleSilicon(t *testing.T) {
	require.Equal(t, 128, GetCacheLineSizeAppleSilicon())
}

func TestDetectAppleSiliconCoreTypes(t *testing.T) {
	require.Equal(t, 0, DetectAppleSiliconCoreTypes(nil))

	var m TopologyMap
	require.Equal(t, 1, DetectAppleSiliconCoreTypes(&m))
	require.Equal(t, CorePerformance, m[0])
	require.Equal(t, CoreEfficiency, m[8])
	require.Equal(t, CoreUnknown, m[16])
}
