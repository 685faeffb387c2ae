package model

// OutputSummary is one decoded transaction output
type OutputSummary struct {
	Address  string `json:"address"`
	Lovelace uint64 `json:"lovelace"`
	ADA      string `json:"ada"`
	Assets   bool   `json:"assets"` // output also carries native tokens
}

// TxSummary is a decoded view of a transaction returned by the provider
type TxSummary struct {
	Hash             string          `json:"hash"`
	Inputs           int             `json:"inputs"`
	Outputs          []OutputSummary `json:"outputs"`
	Fee              uint64          `json:"fee"`
	FeeADA           string          `json:"feeADA"`
	TTL              *uint64         `json:"ttl,omitempty"`
	ValidityStart    *uint64         `json:"validityStart,omitempty"`
	RequiredSigners  int             `json:"requiredSigners"`
	VKeyWitnesses    int             `json:"vkeyWitnesses"`
	HasAuxiliaryData bool            `json:"hasAuxiliaryData"`
	Valid            bool            `json:"valid"`
}

// HealthResponse represents response for GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Network  string `json:"network"`
	Provider string `json:"provider"` // raw provider health body
}

// InspectRequest represents request for POST /cardano/inspect
type InspectRequest struct {
	Transaction string `json:"transaction"` // CBOR hex
}
