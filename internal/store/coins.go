package store

import (
	"fmt"
	"time"
)

// AwardCoins appends a ledger entry. Non-positive amounts are ignored.
func (s *Store) AwardCoins(amount int) error {
	if amount <= 0 {
		return nil
	}
	query := s.rebind(`INSERT INTO coin_ledger (amount, awarded_at) VALUES (?, ?)`)
	if _, err := s.db.Exec(query, amount, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("award coins: %w", err)
	}
	return nil
}

// Balance sums the ledger.
func (s *Store) Balance() (int, error) {
	var total int64
	if err := s.db.QueryRow(`SELECT COALESCE(SUM(amount), 0) FROM coin_ledger`).Scan(&total); err != nil {
		return 0, fmt.Errorf("coin balance: %w", err)
	}
	return int(total), nil
}
