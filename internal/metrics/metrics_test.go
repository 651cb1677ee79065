package metrics

import (
	"testing"
	"time"
)

func TestNoOpMetrics_DoesNotPanic(t *testing.T) {
	Init()

	RecordHTTPRequest("POST", "/v1/grievances", 200, 10*time.Millisecond)
	RecordAnalysis("water_supply", "routed")
	RecordDuplicate("water_supply")
	RecordLoadDelta("D1", 1)

	if Handler() == nil {
		t.Errorf("Expected non-nil metrics handler")
	}
}
