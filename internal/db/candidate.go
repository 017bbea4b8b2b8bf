package db

// Candidate is a user+profile pair eligible for discovery, produced by the
// candidate filter query and consumed by the ranking engine. The join behind
// it guarantees Profile is present (orphaned users never surface).
type Candidate struct {
	User    User
	Profile Profile
}
