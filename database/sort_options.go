package database

const (
	SortDateDesc = "desc"
	SortDateAsc  = "asc"
)

const DefaultSortOrder = SortDateDesc

// IsValidSortOrder checks if a string is a valid sort order constant
func IsValidSortOrder(order string) bool {
	switch order {
	case SortDateDesc, SortDateAsc:
		return true
	default:
		return false
	}
}
