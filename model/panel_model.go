package model

// PanelMetrics is one coupon after mass/area/thickness normalization.
type PanelMetrics struct {
	CouponID         string
	Config           string
	Group            string
	MassKg           float64
	AreaM2           float64
	ThicknessMM      float64
	ArealDensityKgM2 float64
	Notes            string
}

type PanelGroupAgg struct {
	Group                string
	N                    int
	MeanArealDensityKgM2 float64
	MeanThicknessMM      float64
	// zero unless every panel in the group carries a mass
	MeanMassKg float64
}

type ImpactGroupStat struct {
	Group            string
	Metric           string
	N                int
	MeanPeakAbs      float64
	StdPeakAbsSample float64
}

// LeakOnsetRecord and LeakRateRecord are processed leak outputs read back as text,
// so the delta report repeats them exactly as they were written.
type LeakOnsetRecord struct {
	OnsetIndex    string
	OnsetTime     string
	RateThreshold string
	WindowSeconds string
}

type LeakRateRecord struct {
	WindowStartTime string
	WindowEndTime   string
	SampleCount     string
	MeanRate        string
	MedianRate      string
}

type KeyValue struct {
	Key   string
	Value string
}
