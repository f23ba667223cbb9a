package source

import (
	"fmt"
	"os"
	"strings"
)

// CredentialStore resolves rotatable access credentials keyed by provider.
// Session-based adapters look their cookie up per fetch, so an operator can
// rotate the value without a restart or a code change.
type CredentialStore interface {
	Credential(provider string) (string, error)
}

// EnvCredentialStore reads credentials from SESSION_CREDENTIAL_<PROVIDER>
// environment variables.
type EnvCredentialStore struct{}

func (EnvCredentialStore) Credential(provider string) (string, error) {
	key := "SESSION_CREDENTIAL_" + strings.ToUpper(strings.ReplaceAll(provider, "-", "_"))
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return "", fmt.Errorf("no credential for provider %q (%s unset): %w", provider, key, ErrSessionExpired)
	}
	return v, nil
}

// StaticCredentialStore serves fixed values; used by tests and by setups
// where credentials arrive through config rather than the environment.
type StaticCredentialStore map[string]string

func (s StaticCredentialStore) Credential(provider string) (string, error) {
	if v := strings.TrimSpace(s[provider]); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("no credential for provider %q: %w", provider, ErrSessionExpired)
}
