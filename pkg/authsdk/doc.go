/*
Package authsdk is the Go client for the tenantauth authorization server and
the home of its wire types.

# Overview

tenantauth issues HS256-signed bearer tokens to services through the OAuth2
client_credentials grant. The SDK covers the public endpoints directly on
SDKClient and the registration API through an authenticated Session.

	client := authsdk.NewSDKClient("https://auth.example.com")

	tok, err := client.ClientCredentialsGrant(ctx, "billing-svc", secret, []string{"invoices:read"})

	info, err := client.Introspect(ctx, tok.AccessToken)
	if err == nil && !info.Active {
		// expired, tampered with, or not ours
	}

# Sessions

A Session keeps a token and fetches a new one shortly before it expires.
There are no refresh tokens; renewal re-runs the client_credentials grant.

	session, err := client.AuthenticateWithClientCredentials(ctx, adminID, adminSecret, nil)

	created, err := session.RegisterClient(ctx, authsdk.RegisterClientRequest{
		Name:     "Billing Service",
		TenantID: "acme",
		Scopes:   []string{"invoices:read", "invoices:write"},
	})
	// created.ClientSecret is shown once.

# Errors

Failed calls return *OAuth2Error. The predefined values can be matched with
errors.Is because OAuth2Error compares by code:

	_, err := client.ClientCredentialsGrant(ctx, id, "wrong", nil)
	if errors.Is(err, authsdk.ErrInvalidClient) {
		// unknown client, inactive client and wrong secret all land here
	}

# Scopes

The token response carries granted scopes comma-joined. A request whose
scopes overlap none of the client's allowed scopes still succeeds, with an
empty scope.
*/
package authsdk
