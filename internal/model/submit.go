package model

// SubmitRequest represents the body of POST /transactions/submit on the provider
type SubmitRequest struct {
	Signatures  []string `json:"signatures"` // witness sets from the wallet, may be empty if Transaction already carries them
	Transaction string   `json:"transaction"`
}

// SubmitResponse represents the provider reply to POST /transactions/submit
type SubmitResponse struct {
	TxHash string `json:"txHash"`
}

// SubmitPendingRequest represents request for POST /cardano/submit
type SubmitPendingRequest struct {
	Hash       string   `json:"hash"`
	Signatures []string `json:"signatures"`
}

// SubmitResult represents response for POST /cardano/submit
type SubmitResult struct {
	TxHash      string `json:"txHash"`
	ExplorerURL string `json:"explorerUrl"`
	QR          string `json:"QR"` // base64 PNG of ExplorerURL
}
