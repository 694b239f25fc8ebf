package model

import (
	"fmt"
	"time"
)

// MinRewardCost is the floor applied to shop item prices.
const MinRewardCost = 10

type LedgerType string

const (
	LedgerEarn    LedgerType = "earn"
	LedgerSpend   LedgerType = "spend"
	LedgerPenalty LedgerType = "penalty"
	LedgerBonus   LedgerType = "bonus"
)

func (t LedgerType) IsValid() bool {
	switch t {
	case LedgerEarn, LedgerSpend, LedgerPenalty, LedgerBonus:
		return true
	default:
		return false
	}
}

// CoinLedgerEntry is an append-only audit record. Amount is the delta actually applied.
type CoinLedgerEntry struct {
	ID            string         `json:"id"`
	Type          LedgerType     `json:"type"`
	Label         string         `json:"label"`
	Amount        int            `json:"amount"`
	Date          time.Time      `json:"date"`
	RelatedTaskID string         `json:"relatedTaskId,omitempty"`
	Meta          map[string]any `json:"meta,omitempty"`
}

// RewardItem is a shop catalog entry.
type RewardItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Cost        int       `json:"cost"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (r RewardItem) String() string {
	return fmt.Sprintf("%s (%d coins)", r.Title, r.Cost)
}

// ApplyDelta adds delta to bank without letting it drop below zero.
// applied is the change that actually happened.
func ApplyDelta(bank, delta int) (next, applied int) {
	next = bank + delta
	if next < 0 {
		next = 0
	}
	return next, next - bank
}

// EarnType picks the ledger type for a signed applied amount.
func EarnType(applied int) LedgerType {
	if applied >= 0 {
		return LedgerEarn
	}
	return LedgerPenalty
}
