package util

import "testing"

func TestSizeHistogramEstimates(t *testing.T) {
	h := NewSizeHistogram()

	if h.Count() != 0 || h.AverageSize() != 0 || h.MedianEstimate() != 0 {
		t.Error("Empty histogram should report zero estimates")
	}

	for i := 0; i < 100; i++ {
		h.AddSample(100) // bucket 64..256
	}

	if h.Count() != 100 {
		t.Errorf("Expected 100 samples, got %d", h.Count())
	}

	if h.AverageSize() != 100 {
		t.Errorf("Expected average 100, got %d", h.AverageSize())
	}

	// all samples sit in the 64..256 bucket, the estimate is its midpoint
	if got := h.MedianEstimate(); got != (64+256)/2 {
		t.Errorf("Expected median estimate %d, got %d", (64+256)/2, got)
	}

	h.Reset()
	if h.Count() != 0 {
		t.Error("Reset should clear all samples")
	}
}

func TestSizeHistogramDistribution(t *testing.T) {
	h := NewSizeHistogram()

	h.AddSample(8)       // first bucket
	h.AddSample(8)       // first bucket
	h.AddSample(1 << 33) // beyond the last boundary

	boundaries, percentages := h.SizeDistribution()

	if len(boundaries) != 15 || len(percentages) != 16 {
		t.Fatalf("Unexpected distribution shape: %d boundaries, %d buckets",
			len(boundaries), len(percentages))
	}

	if percentages[0] < 66.0 || percentages[0] > 67.0 {
		t.Errorf("Expected ~66%% of samples in the first bucket, got %.2f%%", percentages[0])
	}

	if percentages[len(percentages)-1] < 33.0 || percentages[len(percentages)-1] > 34.0 {
		t.Errorf("Expected ~33%% of samples in the overflow bucket, got %.2f%%",
			percentages[len(percentages)-1])
	}

	// the overflow bucket estimate is twice the last boundary
	if got := h.PercentileEstimate(100); got != 4294967296*2 {
		t.Errorf("Expected overflow estimate %d, got %d", 4294967296*2, got)
	}
}
