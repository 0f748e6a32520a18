package domain

// ProviderGoogle is the sign_in_provider value Firebase reports for Google
// federated sign-ins.
const ProviderGoogle = "google.com"

// Claims are the verified identity attributes taken from a bearer token.
type Claims struct {
	Subject        string
	Email          string // optional
	SignInProvider string // optional, e.g. "password", "google.com"
}
