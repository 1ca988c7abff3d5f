package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserversCountAfterInit(t *testing.T) {
	Init(nil, nil)

	before := testutil.ToFloat64(zoneComputeTotal.WithLabelValues(ResultInsufficientData))
	ObserveZoneCompute(ResultInsufficientData, 10*time.Millisecond)
	require.Equal(t, before+1, testutil.ToFloat64(zoneComputeTotal.WithLabelValues(ResultInsufficientData)))

	rows := testutil.ToFloat64(csvImportRows)
	ObserveCSVImport("", 25)
	require.Equal(t, rows+25, testutil.ToFloat64(csvImportRows))

	exports := testutil.ToFloat64(reportExportTotal.WithLabelValues("unknown", ResultSuccess))
	ObserveReportExport("", "", time.Second)
	require.Equal(t, exports+1, testutil.ToFloat64(reportExportTotal.WithLabelValues("unknown", ResultSuccess)))
}
