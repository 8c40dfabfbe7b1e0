package rp

import (
	"time"

	"github.com/buildtall-systems/bankid-mock/internal/order"
)

// Status is the collect status of an order.
type Status string

const (
	StatusPending  Status = "pending"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// HintExpiredTransaction is the only failure hint this mock produces.
const HintExpiredTransaction = "expiredTransaction"

// Static session tokens. A real identity provider derives these per order;
// clients only need them to be present.
const (
	mockAutoStartToken = "7c40b5c9-fa74-49cf-b98c-bfe651f9a7c6"
	mockQRStartToken   = "67df3917-fa0d-44e5-b327-edcc928297f8"
	mockQRStartSecret  = "d28db9a7-4cde-429e-a983-359be676944c"
)

// Placeholder completion attestation values.
const (
	mockBankIDIssueDate = "2023-01-01"
	mockSignature       = "PHNpZ25hdHVyZT5tb2NrPC9zaWduYXR1cmU+"
	mockOCSPResponse    = "bW9jay1vY3NwLXJlc3BvbnNl"
)

// AuthResponse is returned by the auth endpoint.
type AuthResponse struct {
	OrderRef       string `json:"orderRef"`
	AutoStartToken string `json:"autoStartToken"`
	QRStartToken   string `json:"qrStartToken"`
	QRStartSecret  string `json:"qrStartSecret"`
}

// CollectRequest is the body of the collect endpoint.
type CollectRequest struct {
	OrderRef string `json:"orderRef" binding:"required"`
}

// CollectResponse is returned by the collect endpoint.
type CollectResponse struct {
	OrderRef       string          `json:"orderRef"`
	Status         Status          `json:"status"`
	HintCode       *string         `json:"hintCode"`
	CompletionData *CompletionData `json:"completionData"`
}

// CompletionData describes a completed order.
type CompletionData struct {
	User            order.CompletionData `json:"user"`
	Device          Device               `json:"device"`
	BankIDIssueDate string               `json:"bankIdIssueDate"`
	Signature       string               `json:"signature"`
	OCSPResponse    string               `json:"ocspResponse"`
}

// Device identifies the end-user device.
type Device struct {
	IPAddress string `json:"ipAdress"`
}

// OriginEntry is an origin with pending orders, labelled with its alias when
// one is configured.
type OriginEntry struct {
	IP    string `json:"ip"`
	Alias string `json:"alias,omitempty"`
}

// PendingOrder is a row in an operator listing.
type PendingOrder struct {
	OrderRef  string          `json:"orderRef"`
	CreatedAt time.Time       `json:"createdAt"`
	SubStatus order.SubStatus `json:"hintCode"`
}

// Identity is a synthetic person for manual completion.
type Identity struct {
	PersonalNumber string `json:"personalNumber"`
	Name           string `json:"name"`
}
