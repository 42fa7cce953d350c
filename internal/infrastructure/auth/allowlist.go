package auth

// AllowList is the set of emails permitted to obtain a session. Built once at
// startup, read-only afterwards. Upstream authentication success alone is not
// enough: an identity outside this set never gets a token.
type AllowList struct {
	emails map[string]struct{}
}

// NewAllowList builds the set from the configured email list.
func NewAllowList(emails []string) *AllowList {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return &AllowList{emails: set}
}

// Allowed reports exact, case-sensitive membership.
func (a *AllowList) Allowed(email string) bool {
	_, ok := a.emails[email]
	return ok
}

// Len returns the number of allow-listed emails.
func (a *AllowList) Len() int {
	return len(a.emails)
}
