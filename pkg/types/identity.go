package types

// Identity is the authenticated user as extracted from a session token.
// A zero UserID means the caller is not signed in.
type Identity struct {
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	UserPhone string `json:"userPhone"`
}

func (i Identity) SignedIn() bool {
	return i.UserID != ""
}
