package analysis

import "testing"

func TestScoreDetectionsPerfectMatch(t *testing.T) {
	reference := []int{100, 350, 600, 850}
	m := ScoreDetections(reference, reference, 10)
	if m.TruePositives != 4 || m.FalsePositives != 0 || m.FalseNegatives != 0 {
		t.Fatalf("got %+v", m)
	}
	if m.F1 != 1 {
		t.Fatalf("F1: got %v, want 1", m.F1)
	}
	if m.Score != 0 {
		t.Fatalf("Score: got %v, want 0", m.Score)
	}
}

func TestScoreDetectionsWithinTolerance(t *testing.T) {
	reference := []int{100, 350, 600}
	detected := []int{103, 346, 900} // first two within tolerance, third a false positive/negative pair
	m := ScoreDetections(detected, reference, 10)
	if m.TruePositives != 2 {
		t.Fatalf("TruePositives: got %d, want 2", m.TruePositives)
	}
	if m.FalseNegatives != 1 || m.FalsePositives != 1 {
		t.Fatalf("got fp=%d fn=%d, want fp=1 fn=1", m.FalsePositives, m.FalseNegatives)
	}
}

func TestScoreDetectionsEmptyDetectedIsAllFalseNegatives(t *testing.T) {
	reference := []int{100, 200, 300}
	m := ScoreDetections(nil, reference, 10)
	if m.FalseNegatives != 3 || m.TruePositives != 0 {
		t.Fatalf("got %+v", m)
	}
	if m.Precision != 0 {
		t.Fatalf("precision should be 0 with no detections, got %v", m.Precision)
	}
}
