package calculator

// Categories are the expense categories offered when recording an expense.
var Categories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Utilities",
	"Travel",
	"Healthcare",
	"Other",
}

// DefaultCategory is used when an expense is recorded without one.
const DefaultCategory = "Other"

// IsKnownCategory reports whether c is one of Categories.
func IsKnownCategory(c string) bool {
	return contains(Categories, c)
}
