/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package localledger implements pool.Pool with an in-process ledger persisted in badger.
// It verifies request signatures against registered NYMs, orders write transactions and
// answers the queries the issuance workflow relies on. It is not a consensus protocol.
package localledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/revocreg/internal/logfields"
	"github.com/trustbloc/revocreg/pkg/ledger"
	"github.com/trustbloc/revocreg/pkg/pool"
)

var logger = log.New("local-ledger")

const (
	roleTrustee = "0"
	roleSteward = "2"
)

type trustee struct {
	did    string
	verKey string
}

// Ledger is an in-process ledger.
type Ledger struct {
	db       *badger.DB
	ownsDB   bool
	now      func() time.Time
	trustees []trustee

	mu     sync.Mutex
	closed atomic.Bool
}

// Opt configures Ledger.
type Opt func(l *Ledger)

// WithClock sets the clock used for transaction times.
func WithClock(now func() time.Time) Opt {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithTrustee registers a trustee NYM when the ledger is empty.
func WithTrustee(did, verKey string) Opt {
	return func(l *Ledger) {
		l.trustees = append(l.trustees, trustee{did: did, verKey: verKey})
	}
}

// Open opens the ledger database at path. An empty path keeps the ledger in memory.
func Open(path string, opts ...Opt) (*Ledger, error) {
	dbOpts := badger.DefaultOptions(path)
	if path == "" {
		dbOpts = dbOpts.WithInMemory(true)
	}

	dbOpts.Logger = nil

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}

	l, err := New(db, opts...)
	if err != nil {
		_ = db.Close() //nolint:errcheck

		return nil, err
	}

	l.ownsDB = true

	return l, nil
}

// New returns a ledger on top of db.
func New(db *badger.DB, opts ...Opt) (*Ledger, error) {
	l := &Ledger{
		db:  db,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	for _, t := range l.trustees {
		if err := l.bootstrapTrustee(t); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Submit processes req and returns the ledger reply.
func (l *Ledger) Submit(ctx context.Context, req *ledger.PreparedRequest) (*pool.RequestResult, error) {
	if l.closed.Load() {
		return nil, pool.ErrPoolClosed
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	raw, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	parsed, err := ledger.ParseRequest(raw)
	if err != nil {
		return &pool.RequestResult{Failed: err.Error(), Duration: time.Since(start)}, nil
	}

	var reply []byte

	if parsed.TxnType.IsRead() {
		reply, err = l.read(parsed)
	} else {
		reply, err = l.write(parsed)
	}

	if err != nil {
		return nil, err
	}

	logger.Debugc(ctx, "request processed", logfields.WithTxnType(parsed.TxnType.String()),
		logfields.WithReqID(parsed.ReqID), logfields.WithReply(string(reply)))

	return &pool.RequestResult{Reply: reply, Duration: time.Since(start)}, nil
}

// Refresh returns no transactions: the local ledger has no pool beyond itself.
func (l *Ledger) Refresh(context.Context) ([]string, error) {
	if l.closed.Load() {
		return nil, pool.ErrPoolClosed
	}

	return nil, nil
}

// Close closes the ledger and the database it opened.
func (l *Ledger) Close() error {
	if l.closed.Swap(true) || !l.ownsDB {
		return nil
	}

	return l.db.Close()
}

func (l *Ledger) bootstrapTrustee(t trustee) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.db.Update(func(txn *badger.Txn) error {
		found, err := exists(txn, prefixNym+t.did)
		if err != nil || found {
			return err
		}

		seqNo, err := nextSeqNo(txn)
		if err != nil {
			return err
		}

		logger.Info("trustee registered", logfields.WithDID(t.did), logfields.WithSeqNo(seqNo))

		return putJSON(txn, prefixNym+t.did, &nymRecord{
			Dest:    t.did,
			VerKey:  t.verKey,
			Role:    roleTrustee,
			SeqNo:   seqNo,
			TxnTime: l.now().Unix(),
		})
	})
}

func (l *Ledger) write(req *ledger.PreparedRequest) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var reply []byte

	err := l.db.Update(func(txn *badger.Txn) error {
		processedKey := processedReqKey(req.Identifier(), req.ReqID)

		item, err := txn.Get([]byte(processedKey))
		if err == nil {
			reply, err = item.ValueCopy(nil)

			return err
		}

		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		submitter, err := verify(txn, req)
		if err != nil {
			return err
		}

		seqNo, err := nextSeqNo(txn)
		if err != nil {
			return err
		}

		txnTime := l.now().Unix()

		if err = apply(txn, req, submitter, seqNo, txnTime); err != nil {
			return err
		}

		reply, err = writeReply(req, seqNo, txnTime)
		if err != nil {
			return err
		}

		return txn.Set([]byte(processedKey), reply)
	})

	var rej *rejection
	if errors.As(err, &rej) {
		return rej.reply(req)
	}

	if err != nil {
		return nil, fmt.Errorf("process %s: %w", req.TxnType, err)
	}

	return reply, nil
}

func (l *Ledger) read(req *ledger.PreparedRequest) ([]byte, error) {
	var reply []byte

	err := l.db.View(func(txn *badger.Txn) error {
		data, err := query(txn, req)
		if err != nil {
			return err
		}

		reply, err = readReply(req, data)

		return err
	})

	var rej *rejection
	if errors.As(err, &rej) {
		return rej.reply(req)
	}

	if err != nil {
		return nil, fmt.Errorf("process %s: %w", req.TxnType, err)
	}

	return reply, nil
}
