package domain

// Identity is the authenticated principal of the active session. It is owned
// by the identity provider; the client only reads it.
type Identity struct {
	// UID is the provider's stable identifier for the account.
	UID string

	// Email is the address the account signed up with. It doubles as the
	// display identifier.
	Email string

	// EmailVerified reports whether the provider has confirmed the address.
	EmailVerified bool
}

// SameIdentity reports whether a and b describe the same session state.
// Two nil identities are the same state.
func SameIdentity(a, b *Identity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
