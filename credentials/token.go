// Package credentials finds the GitHub token to send with API requests.
package credentials

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/cli/go-gh/pkg/auth"
)

// Source names where a token came from.
type Source string

const (
	SourceNone    Source = "none"
	SourceEnv     Source = "env"
	SourceAgeFile Source = "age-file"
	SourceGH      Source = "gh"
)

// Options lists the places a token may be found, in precedence order.
type Options struct {
	Token        string
	TokenFile    string
	IdentityPath string
	Passphrase   string
	UseGH        bool
	APIURL       string
}

// tokenForHost is replaced in tests.
var tokenForHost = auth.TokenForHost

// Resolve returns the token to use. An empty token with SourceNone means
// requests go out unauthenticated.
func Resolve(opts Options) (string, Source, error) {
	if t := strings.TrimSpace(opts.Token); t != "" {
		return t, SourceEnv, nil
	}

	if opts.TokenFile != "" {
		t, err := readTokenFile(opts.TokenFile, opts.IdentityPath, opts.Passphrase)
		if err != nil {
			return "", SourceNone, err
		}
		return t, SourceAgeFile, nil
	}

	if opts.UseGH {
		if t, _ := tokenForHost(hostForAPI(opts.APIURL)); t != "" {
			return t, SourceGH, nil
		}
	}

	return "", SourceNone, nil
}

func readTokenFile(path, identityPath, passphrase string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	if !IsArmored(string(data)) {
		return "", fmt.Errorf("token file %s is not an armored age file", path)
	}
	if identityPath == "" {
		return "", fmt.Errorf("token file %s needs an identity to decrypt it", path)
	}

	ids, err := LoadIdentities(identityPath, passphrase)
	if err != nil {
		return "", err
	}
	token, err := Decrypt(string(data), ids...)
	if err != nil {
		return "", err
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("token file %s decrypted to an empty token", path)
	}
	return token, nil
}

// hostForAPI maps an API base URL to the host gh stores tokens under.
func hostForAPI(apiURL string) string {
	u, err := url.Parse(apiURL)
	if err != nil || u.Host == "" {
		return "github.com"
	}
	host := u.Hostname()
	if host == "api.github.com" {
		return "github.com"
	}
	return host
}
