package store

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/AlexZinkM/anvil-tx/internal/model"

	"github.com/fxamacker/cbor/v2"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned for unknown or expired transactions
	ErrNotFound = errors.New("transaction not found or expired")
	// ErrExists is returned when a hash is stored twice
	ErrExists = errors.New("transaction already stored")
)

var bucketPending = []byte("pending")

// BoltStore keeps built transactions in a bbolt file keyed by hash.
type BoltStore struct {
	db     *bolt.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewBoltStore opens (or creates) the database at path.
func NewBoltStore(path string, logger *zap.Logger) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPending)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	s := &BoltStore{db: db, logger: logger, now: time.Now}
	logger.Debug("pending store opened", zap.String("path", path), zap.Int("count", s.Count()))
	return s, nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Put stores a newly built transaction. A hash that is already stored is an
// error unless the stored entry is an expired build.
func (s *BoltStore) Put(p *model.PendingTransaction) error {
	data, err := cbor.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode transaction: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPending)
		if existing := b.Get([]byte(p.Hash)); existing != nil {
			prev, err := decode(existing)
			// an expired build is already gone for Get, so it may be replaced
			if err == nil && !(prev.Status == model.PendingStatusBuilt && prev.Expired(s.now())) {
				return ErrExists
			}
		}
		return b.Put([]byte(p.Hash), data)
	})
}

// Get returns the stored transaction. Expired transactions are reported as ErrNotFound.
func (s *BoltStore) Get(hash string) (*model.PendingTransaction, error) {
	var p *model.PendingTransaction
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketPending).Get([]byte(hash))
		if data == nil {
			return ErrNotFound
		}
		var err error
		p, err = decode(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	if p.Status == model.PendingStatusBuilt && p.Expired(s.now()) {
		return nil, ErrNotFound
	}
	return p, nil
}

// List returns stored transactions matching filter, newest first.
func (s *BoltStore) List(filter *model.PendingRequest) ([]model.PendingTransaction, error) {
	now := s.now()
	out := []model.PendingTransaction{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPending).ForEach(func(k, v []byte) error {
			p, err := decode(v)
			if err != nil {
				s.logger.Warn("skipping undecodable transaction", zap.ByteString("hash", k), zap.Error(err))
				return nil
			}
			if p.Status == model.PendingStatusBuilt && p.Expired(now) {
				return nil
			}
			if filter != nil && !filter.Match(p) {
				return nil
			}
			out = append(out, *p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// MarkSubmitted records that the transaction was accepted by the chain.
func (s *BoltStore) MarkSubmitted(hash, txHash string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPending)
		data := b.Get([]byte(hash))
		if data == nil {
			return ErrNotFound
		}
		p, err := decode(data)
		if err != nil {
			return err
		}
		now := s.now()
		p.Status = model.PendingStatusSubmitted
		p.SubmittedAt = &now
		p.SubmittedHash = txHash

		updated, err := cbor.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to encode transaction: %w", err)
		}
		return b.Put([]byte(hash), updated)
	})
}

// Delete removes a transaction. Deleting an unknown hash is not an error.
func (s *BoltStore) Delete(hash string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPending).Delete([]byte(hash))
	})
}

// PruneExpired deletes built transactions past their expiry and returns how many were removed.
func (s *BoltStore) PruneExpired() (int, error) {
	now := s.now()
	pruned := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPending)
		var expired [][]byte
		if err := b.ForEach(func(k, v []byte) error {
			p, err := decode(v)
			if err != nil {
				return nil
			}
			if p.Status == model.PendingStatusBuilt && p.Expired(now) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		pruned = len(expired)
		return nil
	})
	return pruned, err
}

// Count returns the number of built, unexpired transactions.
func (s *BoltStore) Count() int {
	status := model.PendingStatusBuilt
	list, err := s.List(&model.PendingRequest{Status: &status})
	if err != nil {
		return 0
	}
	return len(list)
}

func decode(data []byte) (*model.PendingTransaction, error) {
	var p model.PendingTransaction
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	return &p, nil
}
