/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package pool

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

const nodeTxnType = "0"

// Transactions is an ordered set of pool (NODE) transactions, one JSON document each,
// as found in a genesis file.
type Transactions struct {
	txns []string
}

// Node is a validator node described by a pool transaction.
type Node struct {
	Alias      string
	Dest       string
	ClientIP   string
	ClientPort int64
	NodeIP     string
	NodePort   int64
	Services   []string
}

// TransactionsFromFile reads a genesis file.
func TransactionsFromFile(path string) (*Transactions, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("read genesis file: %w", err)
	}

	return TransactionsFromJSON(data)
}

// TransactionsFromJSON parses genesis transactions separated by new lines.
func TransactionsFromJSON(data []byte) (*Transactions, error) {
	t := &Transactions{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), 1<<20) //nolint:gomnd

	var lines []string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan genesis transactions: %w", err)
	}

	if err := t.Extend(lines); err != nil {
		return nil, err
	}

	if t.Len() == 0 {
		return nil, errors.New("genesis contains no transactions")
	}

	return t, nil
}

// Extend appends txns, skipping transactions already present by sequence number.
func (t *Transactions) Extend(txns []string) error {
	known := lo.SliceToMap(t.txns, func(txn string) (int64, struct{}) {
		return seqNo(txn), struct{}{}
	})

	for _, txn := range txns {
		if err := validate(txn); err != nil {
			return err
		}

		if _, ok := known[seqNo(txn)]; ok {
			continue
		}

		known[seqNo(txn)] = struct{}{}
		t.txns = append(t.txns, txn)
	}

	return nil
}

// Clone returns a copy of t.
func (t *Transactions) Clone() *Transactions {
	return &Transactions{txns: append([]string(nil), t.txns...)}
}

// Len returns the number of transactions.
func (t *Transactions) Len() int {
	return len(t.txns)
}

// Encode returns the transactions as JSON documents.
func (t *Transactions) Encode() []string {
	return append([]string(nil), t.txns...)
}

// Nodes returns the validator nodes described by the transactions. Later transactions of the
// same node override the earlier ones.
func (t *Transactions) Nodes() []Node {
	nodes := map[string]Node{}

	var order []string

	for _, txn := range t.txns {
		data := gjson.Get(txn, "txn.data")
		dest := data.Get("dest").String()

		node, ok := nodes[dest]
		if !ok {
			order = append(order, dest)
			node.Dest = dest
		}

		info := data.Get("data")

		if v := info.Get("alias"); v.Exists() {
			node.Alias = v.String()
		}

		if v := info.Get("client_ip"); v.Exists() {
			node.ClientIP = v.String()
		}

		if v := info.Get("client_port"); v.Exists() {
			node.ClientPort = v.Int()
		}

		if v := info.Get("node_ip"); v.Exists() {
			node.NodeIP = v.String()
		}

		if v := info.Get("node_port"); v.Exists() {
			node.NodePort = v.Int()
		}

		if v := info.Get("services"); v.Exists() {
			node.Services = lo.Map(v.Array(), func(r gjson.Result, _ int) string {
				return r.String()
			})
		}

		nodes[dest] = node
	}

	return lo.Map(order, func(dest string, _ int) Node {
		return nodes[dest]
	})
}

func validate(txn string) error {
	if !gjson.Valid(txn) {
		return fmt.Errorf("pool transaction is not valid JSON: %.64s", txn)
	}

	if typ := gjson.Get(txn, "txn.type").String(); typ != nodeTxnType {
		return fmt.Errorf("unexpected pool transaction type %q", typ)
	}

	if gjson.Get(txn, "txn.data.dest").String() == "" {
		return errors.New("pool transaction has no destination")
	}

	if seqNo(txn) <= 0 {
		return errors.New("pool transaction has no sequence number")
	}

	return nil
}

func seqNo(txn string) int64 {
	return gjson.Get(txn, "txnMetadata.seqNo").Int()
}
