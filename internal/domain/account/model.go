package account

// Principal identifies an authenticated judge or admin.
type Principal struct {
	UserID string
	Email  string
}
