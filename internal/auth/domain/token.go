package domain

// TokenGrant is what a successful client_credentials grant returns.
type TokenGrant struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int // seconds
	Scope       string
	TenantID    string
}

// Introspection is the outcome of checking a token. When Active is false the
// remaining fields are always zero.
type Introspection struct {
	Active    bool
	ClientID  string
	TenantID  string
	Scope     string
	TokenType string
	Exp       int64
	Iat       int64
	Iss       string
	Sub       string
}
