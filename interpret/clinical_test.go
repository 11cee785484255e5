package interpret

import (
	"testing"

	"github.com/ecgcore/ecg-analyzer/hrv"
	"github.com/ecgcore/ecg-analyzer/morphology"
	"github.com/ecgcore/ecg-analyzer/rhythm"
)

func TestApplyWideComplexTachycardiaOverridesLabel(t *testing.T) {
	qrs := morphology.QRSMetrics{MeanQRSMs: 140, Interpretation: "Wide QRS (BBB/Ventricular)"}
	qt := morphology.QTMetrics{}
	hv := hrv.Metrics{}

	result := Apply(rhythm.Tachycardia, qrs, qt, hv, 120)
	if result.RhythmLabel != WideComplexTachycardia {
		t.Fatalf("got %q, want %q", result.RhythmLabel, WideComplexTachycardia)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != "Wide QRS with tachycardia requires immediate assessment" {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
}

func TestApplyWideQRSWithoutTachycardiaAppendsInterpretation(t *testing.T) {
	qrs := morphology.QRSMetrics{MeanQRSMs: 140, Interpretation: "Wide QRS (BBB/Ventricular)"}
	result := Apply(rhythm.NormalSinusRhythm, qrs, morphology.QTMetrics{}, hrv.Metrics{}, 70)
	if result.RhythmLabel != rhythm.NormalSinusRhythm {
		t.Fatalf("rhythm label should be unchanged, got %q", result.RhythmLabel)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != qrs.Interpretation {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
}

func TestApplyQTRiskFlagAppendsWarning(t *testing.T) {
	qt := morphology.QTMetrics{RiskFlag: true, Interpretation: "High Risk (Long QT)"}
	result := Apply(rhythm.NormalSinusRhythm, morphology.QRSMetrics{}, qt, hrv.Metrics{}, 70)
	if len(result.Warnings) != 1 || result.Warnings[0] != "High Risk (Long QT)" {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
}

func TestApplyLowHRVAppendsWarning(t *testing.T) {
	hv := hrv.Metrics{SDNNMs: 15}
	result := Apply(rhythm.NormalSinusRhythm, morphology.QRSMetrics{}, morphology.QTMetrics{}, hv, 70)
	if len(result.Warnings) != 1 || result.Warnings[0] != "Low HRV detected - consider cardiac risk assessment" {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
}

func TestApplyNoWarningsOnCleanInput(t *testing.T) {
	result := Apply(rhythm.NormalSinusRhythm, morphology.QRSMetrics{MeanQRSMs: 90}, morphology.QTMetrics{}, hrv.Metrics{SDNNMs: 60}, 70)
	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", result.Warnings)
	}
	if result.RhythmLabel != rhythm.NormalSinusRhythm {
		t.Fatalf("label should be unchanged, got %q", result.RhythmLabel)
	}
}

func TestApplyOrdersWarningsByRule(t *testing.T) {
	qrs := morphology.QRSMetrics{MeanQRSMs: 140, Interpretation: "Wide QRS (BBB/Ventricular)"}
	qt := morphology.QTMetrics{RiskFlag: true, Interpretation: "High Risk (Long QT)"}
	hv := hrv.Metrics{SDNNMs: 10}
	result := Apply(rhythm.NormalSinusRhythm, qrs, qt, hv, 70)
	want := []string{"Wide QRS (BBB/Ventricular)", "High Risk (Long QT)", "Low HRV detected - consider cardiac risk assessment"}
	if len(result.Warnings) != len(want) {
		t.Fatalf("got %v, want %v", result.Warnings, want)
	}
	for i := range want {
		if result.Warnings[i] != want[i] {
			t.Fatalf("warning[%d]: got %q, want %q", i, result.Warnings[i], want[i])
		}
	}
}
