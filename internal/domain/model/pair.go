package model

// Pair is an unordered pair of user ids stored in canonical order (User1ID < User2ID).
type Pair struct {
	User1ID string `json:"user1_id"`
	User2ID string `json:"user2_id"`
}

// NewPair orders a and b so the lexicographically smaller id comes first.
func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{User1ID: a, User2ID: b}
}

// Key is a stable string identity for the pair.
func (p Pair) Key() string { return p.User1ID + ":" + p.User2ID }

// Has reports whether id is one side of the pair.
func (p Pair) Has(id string) bool { return p.User1ID == id || p.User2ID == id }

// Other returns the id on the opposite side of id.
func (p Pair) Other(id string) string {
	if p.User1ID == id {
		return p.User2ID
	}
	return p.User1ID
}
