package dto

// ── activity ──

// ActivityListRequest audit log query
type ActivityListRequest struct {
	PaginationRequest
	Title    string `form:"title"`
	Username string `form:"username"`
}
