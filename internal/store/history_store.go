package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/drawlab/lottogen/internal/lottery"
)

var ErrNotFound = errors.New("key not found")

// HistoryStore caches downloaded draw histories in a local badger database
// so repeated runs don't hammer the upstream feed.
type HistoryStore struct {
	db *badger.DB
}

func Open(dir string) (*HistoryStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger open: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

func historyKey(game string) []byte {
	return []byte(fmt.Sprintf("history/%s", game))
}

func fetchedAtKey(game string) []byte {
	return []byte(fmt.Sprintf("history/%s/fetched_at", game))
}

// SaveHistory replaces the cached draws for a game and stamps the fetch
// time.
func (s *HistoryStore) SaveHistory(game string, draws []lottery.Draw) error {
	if game == "" {
		return errors.New("game name is required")
	}
	data, err := json.Marshal(draws)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(historyKey(game), data); err != nil {
			return err
		}
		return txn.Set(fetchedAtKey(game), []byte(time.Now().UTC().Format(time.RFC3339)))
	})
}

// LoadHistory returns the cached history for a game, or ErrNotFound when
// nothing has been fetched yet.
func (s *HistoryStore) LoadHistory(game string) (*lottery.History, error) {
	data, err := s.get(historyKey(game))
	if err != nil {
		return nil, err
	}
	var draws []lottery.Draw
	if err := json.Unmarshal(data, &draws); err != nil {
		return nil, fmt.Errorf("decode cached history: %w", err)
	}
	return lottery.NewHistory(draws), nil
}

// FetchedAt reports when the cached history was last refreshed.
func (s *HistoryStore) FetchedAt(game string) (time.Time, error) {
	data, err := s.get(fetchedAtKey(game))
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, string(data))
}

func (s *HistoryStore) get(key []byte) ([]byte, error) {
	var valCopy []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		valCopy, err = item.ValueCopy(nil)
		return err
	})
	return valCopy, err
}

func (s *HistoryStore) Close() error {
	return s.db.Close()
}
