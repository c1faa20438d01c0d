package core

// MonthlyBudgetHours is the fixed overtime allowance per calendar month.
const MonthlyBudgetHours = 29.0

// ProjectionKind tags the outcome of a budget projection.
type ProjectionKind int

const (
	// ProjectionSuggest carries a concrete suggested off time.
	ProjectionSuggest ProjectionKind = iota
	// ProjectionExhausted means the budget is used up: recommend the
	// standard off time from now on.
	ProjectionExhausted
	// ProjectionNoWorkdays means budget remains but no workday is left
	// to spend it on.
	ProjectionNoWorkdays
)

// Projection is the typed result of spreading the remaining budget over
// the remaining workdays. Rendering to text happens at the presentation
// boundary, not here.
type Projection struct {
	Kind      ProjectionKind
	Total     float64 // month-to-date overtime fed in
	Remaining float64 // MonthlyBudgetHours - Total, may be negative
	Workdays  int     // remaining workday count fed in
	AvgPerDay float64 // valid only for ProjectionSuggest
	Suggested Clock   // valid only for ProjectionSuggest
}

// Project spreads the remaining monthly budget evenly across
// remainingWorkdays. Whether "today" counts toward remainingWorkdays is
// the caller's contract: after clock-out today is spent and excluded;
// before clock-out it is still pending and included.
func Project(monthlyTotal float64, remainingWorkdays int) Projection {
	p := Projection{
		Total:     monthlyTotal,
		Remaining: MonthlyBudgetHours - monthlyTotal,
		Workdays:  remainingWorkdays,
	}
	switch {
	case p.Remaining <= 0:
		p.Kind = ProjectionExhausted
	case remainingWorkdays > 0:
		p.Kind = ProjectionSuggest
		p.AvgPerDay = p.Remaining / float64(remainingWorkdays)
		p.Suggested = StandardOff.AddHours(p.AvgPerDay)
	default:
		p.Kind = ProjectionNoWorkdays
	}
	return p
}
