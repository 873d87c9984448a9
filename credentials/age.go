package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"
	"filippo.io/age/agessh"
	"filippo.io/age/armor"
	"golang.org/x/crypto/ssh"
)

const armorHeader = "-----BEGIN AGE ENCRYPTED FILE-----"

// ErrPassphraseRequired is returned when an SSH identity is passphrase
// protected and no passphrase was supplied.
var ErrPassphraseRequired = errors.New("ssh key is passphrase protected, please provide passphrase")

// IsArmored reports whether text looks like an armored age file.
func IsArmored(text string) bool {
	return strings.Contains(text, armorHeader) &&
		strings.Contains(text, "-----END AGE ENCRYPTED FILE-----")
}

// LoadIdentities reads an age X25519 identity file or an SSH private key.
func LoadIdentities(path, passphrase string) ([]age.Identity, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key file: %w", err)
	}

	if bytes.Contains(keyData, []byte("AGE-SECRET-KEY-")) {
		ids, err := age.ParseIdentities(bytes.NewReader(keyData))
		if err != nil {
			return nil, fmt.Errorf("failed to parse age identity: %w", err)
		}
		return ids, nil
	}

	id, err := agessh.ParseIdentity(keyData)
	if err == nil {
		return []age.Identity{id}, nil
	}

	var missing *ssh.PassphraseMissingError
	if !errors.As(err, &missing) {
		return nil, fmt.Errorf("failed to parse SSH key: %w", err)
	}
	if passphrase == "" {
		return nil, ErrPassphraseRequired
	}
	if missing.PublicKey == nil {
		return nil, fmt.Errorf("ssh key does not expose its public key; decrypt it with ssh-keygen first")
	}

	encrypted, err := agessh.NewEncryptedSSHIdentity(missing.PublicKey, keyData, func() ([]byte, error) {
		return []byte(passphrase), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load encrypted SSH key: %w", err)
	}
	return []age.Identity{encrypted}, nil
}

// Decrypt decrypts armored age text with the given identities.
func Decrypt(encryptedText string, identities ...age.Identity) (string, error) {
	r, err := age.Decrypt(armor.NewReader(strings.NewReader(encryptedText)), identities...)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	decrypted, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read decrypted content: %w", err)
	}
	return string(decrypted), nil
}

// ParseRecipient accepts an age X25519 recipient (age1...) or an SSH public
// key line.
func ParseRecipient(s string) (age.Recipient, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "age1") {
		rec, err := age.ParseX25519Recipient(s)
		if err != nil {
			return nil, fmt.Errorf("failed to parse recipient: %w", err)
		}
		return rec, nil
	}
	rec, err := agessh.ParseRecipient(s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse recipient: %w", err)
	}
	return rec, nil
}

// Seal encrypts plaintext to the recipients and returns armored output.
func Seal(plaintext string, recipients ...age.Recipient) (string, error) {
	if len(recipients) == 0 {
		return "", errors.New("no recipients")
	}

	var buf bytes.Buffer
	armorWriter := armor.NewWriter(&buf)

	w, err := age.Encrypt(armorWriter, recipients...)
	if err != nil {
		return "", err
	}
	if _, err := io.WriteString(w, plaintext); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	if err := armorWriter.Close(); err != nil {
		return "", err
	}

	return buf.String(), nil
}
