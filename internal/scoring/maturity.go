package scoring

// MaturityLevel maps a question's scored points to the human-readable label
// shown in reports. Display only; never used in score arithmetic.
func MaturityLevel(points int) string {
	switch {
	case points <= 0:
		return "Not Implemented"
	case points == 1:
		return "Initial"
	case points == 2:
		return "Developing"
	case points == 3:
		return "Defined"
	case points == 4:
		return "Managed"
	default:
		return "Optimized"
	}
}
