package crypto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/AlexZinkM/anvil-tx/internal/model"
)

// ErrInvalidPassword is returned when the key file cannot be authenticated
var ErrInvalidPassword = errors.New("invalid password")

// SealedKey is an opened key file
type SealedKey struct {
	Network string
	APIKey  string
}

// OpenKey reads and decrypts a .cwt key file
// password must be []byte for security (caller should zero it after use)
func OpenKey(filePath string, password []byte) (*SealedKey, error) {
	keyFile, err := ReadKeyFile(filePath)
	if err != nil {
		return nil, err
	}

	if keyFile.ScryptN < 2 || keyFile.ScryptN > 1<<20 || keyFile.ScryptN&(keyFile.ScryptN-1) != 0 {
		return nil, fmt.Errorf("invalid scrypt cost %d", keyFile.ScryptN)
	}

	salt, err := base64.StdEncoding.DecodeString(keyFile.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(keyFile.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}
	if len(nonce) != nonceLen {
		return nil, fmt.Errorf("invalid nonce length %d", len(nonce))
	}

	ciphertext, err := base64.StdEncoding.DecodeString(keyFile.CipherText)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	aesGCM, err := newGCM(password, salt, keyFile.ScryptN)
	if err != nil {
		return nil, err
	}

	// network is authenticated as additional data, editing it breaks Open
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, []byte(keyFile.Network))
	if err != nil {
		return nil, ErrInvalidPassword
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	var keyData model.KeyData
	if err := json.Unmarshal(plaintext, &keyData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal key data: %w", err)
	}

	return &SealedKey{
		Network: keyFile.Network,
		APIKey:  keyData.APIKey,
	}, nil
}

// ReadKeyFile reads the key file envelope (without decryption)
func ReadKeyFile(filePath string) (*model.KeyFile, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("file does not exist")
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if fileInfo.Size() == 0 {
		return nil, errors.New("file is empty")
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Skip UTF-8 BOM if present
	if len(fileData) >= 3 && fileData[0] == 0xEF && fileData[1] == 0xBB && fileData[2] == 0xBF {
		fileData = fileData[3:]
	}

	var keyFile model.KeyFile
	if err := json.Unmarshal(fileData, &keyFile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal key file: %w", err)
	}

	return &keyFile, nil
}
