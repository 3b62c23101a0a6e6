package clinic

import "context"

// CredentialProvider supplies the bearer token forwarded to the clinic
// backend. Injecting it keeps token storage out of this core and lets tests
// run with fake credentials.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticCredentials is a fixed-token provider, used for request-scoped
// tokens captured by the auth middleware and for tests.
type StaticCredentials string

func (s StaticCredentials) Token(ctx context.Context) (string, error) {
	return string(s), nil
}
