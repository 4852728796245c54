package model

// Identity is an authenticated console user as reported by the upstream.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Branch   string `json:"branch,omitempty"`
}
