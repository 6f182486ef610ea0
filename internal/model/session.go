package model

// Session is the per-visitor authentication state. The zero value is an
// anonymous visitor.
type Session struct {
	LoggedIn  bool
	AccountID *AccountID
}

func NewSession(id AccountID) Session {
	return Session{LoggedIn: true, AccountID: &id}
}

// CurrentAccount returns the logged-in account id, or false when the visitor
// is anonymous or the session carries no id.
func (s Session) CurrentAccount() (AccountID, bool) {
	if !s.LoggedIn || s.AccountID == nil {
		return 0, false
	}
	return *s.AccountID, true
}
