package scoring

// Level is the conformity classification of a global score.
type Level string

const (
	Excellent    Level = "EXCELLENT"
	Satisfactory Level = "SATISFACTORY"
	Acceptable   Level = "ACCEPTABLE"
	Insufficient Level = "INSUFFICIENT"
	NonCompliant Level = "NON_COMPLIANT"
)

// Levels lists the tiers from best to worst.
var Levels = []Level{Excellent, Satisfactory, Acceptable, Insufficient, NonCompliant}

// Classify maps a 0-100 score to its level. Lower bounds are inclusive and the
// table applies to any real input.
func Classify(score float64) Level {
	switch {
	case score >= 90:
		return Excellent
	case score >= 75:
		return Satisfactory
	case score >= 60:
		return Acceptable
	case score >= 40:
		return Insufficient
	default:
		return NonCompliant
	}
}

// Color is the display colour of the level.
func (l Level) Color() string {
	switch l {
	case Excellent:
		return "#28a745"
	case Satisfactory:
		return "#5cb85c"
	case Acceptable:
		return "#ffc107"
	case Insufficient:
		return "#fd7e14"
	}
	return "#dc3545"
}
