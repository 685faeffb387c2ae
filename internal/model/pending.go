package model

import (
	"fmt"
	"time"
)

// PendingStatus status of a stored transaction
type PendingStatus string

const (
	PendingStatusBuilt     PendingStatus = "BUILT"
	PendingStatusSubmitted PendingStatus = "SUBMITTED"
)

// PendingTransaction is a built transaction kept until it is submitted or expires
type PendingTransaction struct {
	Hash          string        `json:"hash" cbor:"1,keyasint"`
	Complete      string        `json:"complete" cbor:"2,keyasint"`
	Stripped      string        `json:"stripped" cbor:"3,keyasint"`
	WitnessSet    string        `json:"witnessSet" cbor:"4,keyasint"`
	AuxiliaryData string        `json:"auxiliaryData,omitempty" cbor:"5,keyasint,omitempty"`
	ChangeAddress string        `json:"changeAddress" cbor:"6,keyasint"`
	Lovelace      uint64        `json:"lovelace" cbor:"7,keyasint"` // sum of requested outputs
	Status        PendingStatus `json:"status" cbor:"8,keyasint"`
	CreatedAt     time.Time     `json:"createdAt" cbor:"9,keyasint"`
	ExpiresAt     time.Time     `json:"expiresAt" cbor:"10,keyasint"`
	SubmittedAt   *time.Time    `json:"submittedAt,omitempty" cbor:"11,keyasint,omitempty"`
	SubmittedHash string        `json:"submittedHash,omitempty" cbor:"12,keyasint,omitempty"`
}

// Expired reports whether the transaction is past its expiry at now.
func (p *PendingTransaction) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && now.After(p.ExpiresAt)
}

// PendingRequest represents request parameters for GET /cardano/transactions
type PendingRequest struct {
	Status        *PendingStatus
	ChangeAddress *string
}

// Validate validates PendingRequest filter parameters.
func (r *PendingRequest) Validate() error {
	if r.Status != nil && *r.Status != PendingStatusBuilt && *r.Status != PendingStatusSubmitted {
		return fmt.Errorf("status must be BUILT or SUBMITTED")
	}
	return nil
}

// Match reports whether p passes the filter.
func (r *PendingRequest) Match(p *PendingTransaction) bool {
	if r.Status != nil && *r.Status != p.Status {
		return false
	}
	if r.ChangeAddress != nil && *r.ChangeAddress != p.ChangeAddress {
		return false
	}
	return true
}

// PendingResponse represents response for GET /cardano/transactions
type PendingResponse struct {
	Transactions []PendingTransaction `json:"transactions"`
	TotalADA     string               `json:"totalADA"`
}
