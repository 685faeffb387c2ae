package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/AlexZinkM/anvil-tx/internal/model"

	"golang.org/x/crypto/scrypt"
)

const (
	// N=2^18 (~256MB RAM, 0.5-2s). The key file is opened once per process
	// start so the cost is paid rarely.
	defaultScryptN = 1 << 18
	scryptR        = 8
	scryptP        = 1
	scryptKeyLen   = 32
	saltLen        = 32
	nonceLen       = 12

	KeyFileExt = ".cwt"
)

// scryptN is the cost used for new files. Opening uses the value stored in the file.
var scryptN = defaultScryptN

// SealKey encrypts apiKey with password and writes it to a .cwt key file.
// password must be []byte for security (caller should zero it after use)
func SealKey(filePath, network, apiKey string, password []byte) error {
	if !strings.HasSuffix(filePath, KeyFileExt) {
		return fmt.Errorf("file must have %s extension", KeyFileExt)
	}
	if apiKey == "" {
		return errors.New("api key cannot be empty")
	}

	if fileInfo, err := os.Stat(filePath); err == nil && fileInfo.Size() > 0 {
		return fmt.Errorf("file is not empty: %w", os.ErrExist)
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesGCM, err := newGCM(password, salt, scryptN)
	if err != nil {
		return err
	}

	plaintext, err := json.Marshal(&model.KeyData{
		APIKey:    apiKey,
		CreatedAt: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal key data: %w", err)
	}
	defer clear(plaintext) // wipe plaintext bytes from memory

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, []byte(network))

	keyFile := model.KeyFile{
		Network:    network,
		Hint:       keyHint(apiKey),
		ScryptN:    scryptN,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(ciphertext),
	}

	fileData, err := json.MarshalIndent(keyFile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal key file: %w", err)
	}

	if err := os.WriteFile(filePath, fileData, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// newGCM derives the file key from password and returns the AEAD.
func newGCM(password, salt []byte, n int) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, n, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}

func keyHint(apiKey string) string {
	const visible = 4
	if len(apiKey) <= visible {
		return strings.Repeat("*", len(apiKey))
	}
	return "..." + apiKey[len(apiKey)-visible:]
}
