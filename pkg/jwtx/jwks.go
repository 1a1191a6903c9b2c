package jwtx

// JWK describes a signing key in JSON Web Key format (RFC 7517).
//
// Tokens are signed with a shared HMAC secret, which cannot be published.
// The JWKS document therefore carries a descriptor with no key material:
// resource servers can learn the kid and algorithm but must verify through
// introspection instead.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
	Kid string `json:"kid,omitempty"`
}

// JWKS is a JSON Web Key Set (RFC 7517).
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// PlaceholderJWKS returns the key-material-free descriptor of the codec key.
func (c *Codec) PlaceholderJWKS() JWKS {
	return JWKS{Keys: []JWK{{
		Kty: "oct",
		Use: "sig",
		Alg: "HS256",
		Kid: c.kid,
	}}}
}
