package models

// Purpose says which flow an OTP challenge belongs to.
type Purpose string

const (
	PurposeLogin Purpose = "login"
	PurposeReset Purpose = "password-reset"
)

// Credentials is a password login attempt. Password is wiped by the caller.
type Credentials struct {
	Email    string
	Password []byte
	Role     Role
}

// SessionGrant is what a successful credential exchange hands back.
// Either field may be empty when the server omits it.
type SessionGrant struct {
	Token   string
	UserID  string
	Message string
}

// OTPVerification is the answer to a login OTP check.
type OTPVerification struct {
	Success bool
	Message string
	Grant   SessionGrant
}

// Identity is the authenticated user as known to the session store.
type Identity struct {
	UserID string
	Token  string
}
