package model

// Member is a person submitting updates. Name is unique and carries the
// "<Name> - <Role>" form used at submission time.
type Member struct {
	ID         int64  `json:"id"         db:"id"`
	Name       string `json:"name"       db:"name"`
	Role       string `json:"role"       db:"role"`
	Department string `json:"department" db:"department"`
}
