package model

// Verdict classifies how match B's tracking latency relates to match A's.
type Verdict string

// Verdict values.
const (
	VerdictFaster       Verdict = "B faster"
	VerdictSlower       Verdict = "B slower"
	VerdictNoDifference Verdict = "no significant difference"
)

// FieldDeltas holds one nullable number of seconds per measurement field.
type FieldDeltas struct {
	BallSpeed     *float64 `json:"ballSpeed"`
	LaunchAngle   *float64 `json:"launchAngle"`
	Apex          *float64 `json:"apex"`
	Curve         *float64 `json:"curve"`
	CarryDistance *float64 `json:"carryDistance"`
	TotalDistance *float64 `json:"totalDistance"`
}

// Get returns the delta of field f.
func (d FieldDeltas) Get(f Field) *float64 {
	switch f {
	case FieldBallSpeed:
		return d.BallSpeed
	case FieldLaunchAngle:
		return d.LaunchAngle
	case FieldApex:
		return d.Apex
	case FieldCurve:
		return d.Curve
	case FieldCarryDistance:
		return d.CarryDistance
	case FieldTotalDistance:
		return d.TotalDistance
	}
	return nil
}

// Set assigns the delta of field f.
func (d *FieldDeltas) Set(f Field, v *float64) {
	switch f {
	case FieldBallSpeed:
		d.BallSpeed = v
	case FieldLaunchAngle:
		d.LaunchAngle = v
	case FieldApex:
		d.Apex = v
	case FieldCurve:
		d.Curve = v
	case FieldCarryDistance:
		d.CarryDistance = v
	case FieldTotalDistance:
		d.TotalDistance = v
	}
}

// PositionComparison pairs the shots occupying one position in two matches.
// Diffs are B minus A, in seconds; nil when either side is missing.
type PositionComparison struct {
	Position
	MatchA        *Shot       `json:"matchA"`
	MatchB        *Shot       `json:"matchB"`
	Matched       bool        `json:"matched"`
	Diffs         FieldDeltas `json:"diffs"`
	Outlier       bool        `json:"outlier"`
	OutlierFields []string    `json:"outlierFields,omitempty"`
}

// Comparison is the position-indexed diff of two matches.
type Comparison struct {
	Positions []PositionComparison `json:"positions"`

	MatchedPositions   int `json:"matchedPositions"`
	OnlyInA            int `json:"onlyInA"`
	OnlyInB            int `json:"onlyInB"`
	DuplicatePositions int `json:"duplicatePositions"`

	MeanDelta    FieldDeltas `json:"meanDelta"`
	MeanAbsDelta FieldDeltas `json:"meanAbsDelta"`
	OutlierCount int         `json:"outlierCount"`

	Verdict Verdict `json:"verdict"`
	Faster  int     `json:"faster"`
	Slower  int     `json:"slower"`
	Tied    int     `json:"tied"`
}
