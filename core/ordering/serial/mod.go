// Package serial implements an ordering service that applies the
// transactions one at a time against a key/value database.
//
// The service is the single serializing executor of the system: a mutex
// guarantees that two transactions never interleave their read-modify-write
// sequences, and every transaction runs inside a database transaction that
// is committed only when the contract accepts it. A rejected transaction is
// rolled back so that no partial effect is ever observable.
package serial

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/verivote/verivote"
	"github.com/verivote/verivote/core/execution"
	"github.com/verivote/verivote/core/ordering"
	"github.com/verivote/verivote/core/store"
	"github.com/verivote/verivote/core/store/kv"
	"github.com/verivote/verivote/core/txn"
	"golang.org/x/xerrors"
)

var (
	promAcceptedTxs = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "verivote_serial_transactions_accepted_total",
		Help: "total number of accepted transactions",
	})

	promRejectedTxs = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "verivote_serial_transactions_rejected_total",
		Help: "total number of rejected transactions",
	})
)

// errRejected aborts the database transaction when the contract refuses the
// input. It never escapes the service.
var errRejected = xerrors.New("transaction rejected")

var _ ordering.Service = (*Service)(nil)

var ledgerBucket = []byte("ledger")

func init() {
	verivote.PromCollectors = append(verivote.PromCollectors,
		promAcceptedTxs, promRejectedTxs)
}

// Service is an ordering service that processes transactions in their
// submission order.
//
// - implements ordering.Service
type Service struct {
	sync.Mutex

	db    kv.DB
	exec  execution.Service
	index uint64
}

// NewService creates a new serial ordering service on top of the database.
func NewService(db kv.DB, exec execution.Service) *Service {
	return &Service{
		db:   db,
		exec: exec,
	}
}

// Process implements ordering.Service. It executes the transaction against
// the latest state and commits the writes only when the execution accepts
// the transaction.
func (s *Service) Process(tx txn.Transaction) (execution.Result, error) {
	s.Lock()
	defer s.Unlock()

	var res execution.Result

	err := s.db.Update(func(wtx kv.WritableTx) error {
		bucket, err := wtx.GetBucketOrCreate(ledgerBucket)
		if err != nil {
			return xerrors.Errorf("failed to get bucket: %v", err)
		}

		res, err = s.exec.Execute(bucketSnapshot{bucket: bucket}, execution.Step{Current: tx})
		if err != nil {
			return xerrors.Errorf("failed to execute: %v", err)
		}

		if !res.Accepted {
			return errRejected
		}

		return nil
	})

	if err == errRejected {
		promRejectedTxs.Inc()

		verivote.Logger.Info().
			Hex("tx", tx.GetID()).
			Str("reason", res.Message).
			Msg("transaction rejected")

		return res, nil
	}

	if err != nil {
		return execution.Result{}, xerrors.Errorf("failed to process: %v", err)
	}

	s.index++

	promAcceptedTxs.Inc()

	verivote.Logger.Info().
		Hex("tx", tx.GetID()).
		Uint64("index", s.index).
		Msg("transaction accepted")

	return res, nil
}

// View implements ordering.Service. It executes the closure with a read-only
// view of the latest committed state.
func (s *Service) View(fn func(store.Readable) error) error {
	return s.db.View(func(rtx kv.ReadableTx) error {
		bucket := rtx.GetBucket(ledgerBucket)
		if bucket == nil {
			return fn(emptyReadable{})
		}

		return fn(bucketReadable{bucket: bucket})
	})
}

// BucketSnapshot adapts a database bucket to the store.Snapshot interface.
//
// - implements store.Snapshot
type bucketSnapshot struct {
	bucket kv.Bucket
}

// Get implements store.Readable. The value is copied because the database
// only guarantees it during the transaction.
func (snap bucketSnapshot) Get(key []byte) ([]byte, error) {
	value := snap.bucket.Get(key)
	if value == nil {
		return nil, nil
	}

	return append([]byte{}, value...), nil
}

// Set implements store.Writable.
func (snap bucketSnapshot) Set(key, value []byte) error {
	return snap.bucket.Set(key, value)
}

// Delete implements store.Writable.
func (snap bucketSnapshot) Delete(key []byte) error {
	return snap.bucket.Delete(key)
}

// BucketReadable adapts a database bucket to the store.Readable interface.
//
// - implements store.Readable
type bucketReadable struct {
	bucket kv.Bucket
}

// Get implements store.Readable.
func (r bucketReadable) Get(key []byte) ([]byte, error) {
	value := r.bucket.Get(key)
	if value == nil {
		return nil, nil
	}

	return append([]byte{}, value...), nil
}

// EmptyReadable is the view of the ledger before any transaction has been
// committed.
//
// - implements store.Readable
type emptyReadable struct{}

// Get implements store.Readable. There is no value to return yet.
func (emptyReadable) Get(key []byte) ([]byte, error) {
	return nil, nil
}
