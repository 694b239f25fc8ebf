package state

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sandeepkv93/focusflow/internal/schema"
)

// prependLedger assigns an id and puts entry first; the ledger is newest first.
func (s *Store) prependLedger(d *model.FocusData, entry model.CoinLedgerEntry) {
	entry.ID = s.newID()
	d.CoinLedger = slices.Insert(d.CoinLedger, 0, entry)
}

// SpendCoins debits amount. It fails without touching the bank when amount is
// not positive or exceeds the balance.
func (s *Store) SpendCoins(ctx context.Context, amount int, label string) error {
	return s.update(ctx, func(d *model.FocusData, now time.Time) (bool, error) {
		if err := s.spend(d, now, amount, label, nil); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (s *Store) spend(d *model.FocusData, now time.Time, amount int, label string, meta map[string]any) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if d.CoinBank < amount {
		return fmt.Errorf("%w: balance %d, need %d", ErrInsufficientCoins, d.CoinBank, amount)
	}
	d.CoinBank -= amount
	s.prependLedger(d, model.CoinLedgerEntry{
		Type:   model.LedgerSpend,
		Label:  label,
		Amount: -amount,
		Date:   now.UTC(),
		Meta:   meta,
	})
	return nil
}

// EarnCoins applies a signed amount, clamping the bank at zero. The ledger
// records the amount actually applied. Zero is a no-op.
func (s *Store) EarnCoins(ctx context.Context, amount int, label, relatedTaskID string) error {
	if amount == 0 {
		return nil
	}
	return s.update(ctx, func(d *model.FocusData, now time.Time) (bool, error) {
		bank, applied := model.ApplyDelta(d.CoinBank, amount)
		d.CoinBank = bank
		s.prependLedger(d, model.CoinLedgerEntry{
			Type:          model.EarnType(applied),
			Label:         label,
			Amount:        applied,
			Date:          now.UTC(),
			RelatedTaskID: relatedTaskID,
		})
		return true, nil
	})
}

// BuyReward spends the cost of a shop item, labelled with its title.
func (s *Store) BuyReward(ctx context.Context, rewardID string) (model.RewardItem, error) {
	var bought model.RewardItem
	err := s.update(ctx, func(d *model.FocusData, now time.Time) (bool, error) {
		item, ok := d.Reward(rewardID)
		if !ok {
			return false, fmt.Errorf("%w: %q", ErrRewardNotFound, rewardID)
		}
		if err := s.spend(d, now, item.Cost, item.Title, map[string]any{"rewardId": item.ID}); err != nil {
			return false, err
		}
		bought = item
		return true, nil
	})
	return bought, err
}

type RewardInput struct {
	Title       string
	Cost        float64
	Description string
}

// AddReward puts a new item at the top of the shop. The cost is rounded and
// floored at model.MinRewardCost; an empty title is rejected.
func (s *Store) AddReward(ctx context.Context, in RewardInput) (model.RewardItem, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.RewardItem{}, ErrEmptyTitle
	}
	var out model.RewardItem
	err := s.update(ctx, func(d *model.FocusData, now time.Time) (bool, error) {
		out = schema.NormalizeReward(model.RewardItem{
			ID:          s.newID(),
			Title:       title,
			Cost:        schema.RoundCost(in.Cost),
			Description: strings.TrimSpace(in.Description),
			CreatedAt:   now.UTC(),
		}, now, s.newID)
		d.Rewards = slices.Insert(d.Rewards, 0, out)
		return true, nil
	})
	return out, err
}

func (s *Store) DeleteReward(ctx context.Context, id string) error {
	return s.update(ctx, func(d *model.FocusData, _ time.Time) (bool, error) {
		before := len(d.Rewards)
		d.Rewards = slices.DeleteFunc(d.Rewards, func(r model.RewardItem) bool { return r.ID == id })
		return len(d.Rewards) != before, nil
	})
}
