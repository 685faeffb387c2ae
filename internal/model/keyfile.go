package model

// KeyFile represents the sealed API key file structure
type KeyFile struct {
	Network    string `json:"network"`
	Hint       string `json:"hint"` // last characters of the key, for humans telling files apart
	ScryptN    int    `json:"scryptN"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// KeyData represents decrypted key file contents
type KeyData struct {
	APIKey    string `json:"apiKey"`
	CreatedAt string `json:"createdAt"`
}
