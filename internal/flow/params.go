package flow

// Params holds the tunable values of the flow.
type Params struct {
	// DefaultExpectedScore is the expectation used when the session has no
	// expected mastery level recorded. It matches the intuitive-understanding
	// score.
	DefaultExpectedScore int
}

// NewDefaultParams returns the standard flow parameters.
func NewDefaultParams() *Params {
	return &Params{
		DefaultExpectedScore: 2,
	}
}
