package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups the engine's secrets in the OS keychain.
	KeyringService = "resumematch"

	fetchCookieAccount = "jobfetch:cookie"
)

var ErrNoCookie = errors.New("fetch cookie not set")

// FetchCookie returns the session cookie sent with job board requests.
func FetchCookie() (string, error) {
	c, err := keyring.Get(KeyringService, fetchCookieAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoCookie
	}
	if err != nil {
		return "", fmt.Errorf("keyring get: %w", err)
	}
	if strings.TrimSpace(c) == "" {
		return "", ErrNoCookie
	}
	return c, nil
}

func SetFetchCookie(cookie string) error {
	cookie = strings.TrimSpace(cookie)
	if cookie == "" {
		return errors.New("cookie is empty")
	}
	return keyring.Set(KeyringService, fetchCookieAccount, cookie)
}

// DeleteFetchCookie removes the cookie; deleting a missing cookie is not an
// error.
func DeleteFetchCookie() error {
	err := keyring.Delete(KeyringService, fetchCookieAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
