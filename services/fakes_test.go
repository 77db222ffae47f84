package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Govind-619/MintSphere/blockchain"
	"github.com/Govind-619/MintSphere/models"
	"github.com/stretchr/testify/require"
)

const (
	hashA = "0x1111111111111111111111111111111111111111111111111111111111111111"
	hashB = "0x2222222222222222222222222222222222222222222222222222222222222222"
)

type fakeChain struct {
	mu           sync.Mutex
	receipts     map[string]*blockchain.Receipt
	missing      map[string]bool
	receiptErr   error
	existsErr    error
	receiptCalls map[string]int
	existsCalls  map[string]int
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		receipts:     map[string]*blockchain.Receipt{},
		missing:      map[string]bool{},
		receiptCalls: map[string]int{},
		existsCalls:  map[string]int{},
	}
}

func (f *fakeChain) TransactionReceipt(ctx context.Context, txHash string) (*blockchain.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receiptCalls[txHash]++
	if f.receiptErr != nil {
		return nil, f.receiptErr
	}
	if r, ok := f.receipts[txHash]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeChain) TransactionExists(ctx context.Context, txHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsCalls[txHash]++
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return !f.missing[txHash], nil
}

func (f *fakeChain) setReceipt(txHash string, success bool, confirmations uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receipts[txHash] = &blockchain.Receipt{TxHash: txHash, Success: success, Confirmations: confirmations}
}

func (f *fakeChain) setMissing(txHash string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[txHash] = true
}

func (f *fakeChain) setErrors(receiptErr, existsErr error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receiptErr = receiptErr
	f.existsErr = existsErr
}

func (f *fakeChain) receiptCount(txHash string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.receiptCalls[txHash]
}

func (f *fakeChain) existsCount(txHash string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existsCalls[txHash]
}

type orderRow struct {
	Status            string
	TransactionStatus string
	FailureReason     *string
}

type fakeOrderWriter struct {
	mu     sync.Mutex
	rows   map[uint]*orderRow
	writes int
}

func newFakeOrderWriter(pendingIDs ...uint) *fakeOrderWriter {
	w := &fakeOrderWriter{rows: map[uint]*orderRow{}}
	for _, id := range pendingIDs {
		w.rows[id] = &orderRow{Status: models.OrderStatusPending, TransactionStatus: models.TxStatusPending}
	}
	return w
}

func (w *fakeOrderWriter) SetOrderTransactionState(ctx context.Context, orderID uint, state models.OrderTransactionState) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	row, ok := w.rows[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	row.Status = state.Status
	row.TransactionStatus = state.TransactionStatus
	if state.FailureReason != nil {
		row.FailureReason = state.FailureReason
	}
	w.writes++
	return nil
}

func (w *fakeOrderWriter) FailOrderIfPending(ctx context.Context, orderID uint, reason string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	row, ok := w.rows[orderID]
	if !ok || row.Status != models.OrderStatusPending {
		return false, nil
	}
	row.Status = models.OrderStatusFailed
	row.TransactionStatus = models.TxStatusFailed
	row.FailureReason = &reason
	w.writes++
	return true, nil
}

func (w *fakeOrderWriter) row(orderID uint) orderRow {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.rows[orderID]; ok {
		return *r
	}
	return orderRow{}
}

func (w *fakeOrderWriter) writeCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}

func (w *fakeOrderWriter) waitForStatus(t *testing.T, orderID uint, status string) orderRow {
	t.Helper()
	require.Eventually(t, func() bool {
		return w.row(orderID).Status == status
	}, 2*time.Second, 5*time.Millisecond, "order %d never reached %s", orderID, status)
	return w.row(orderID)
}

type recordedOutcome struct {
	orderID uint
	txHash  string
	outcome TxOutcome
}

type fakeNotifier struct {
	mu       sync.Mutex
	outcomes []recordedOutcome
}

func (n *fakeNotifier) NotifyOutcome(ctx context.Context, orderID uint, txHash string, outcome TxOutcome) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.outcomes = append(n.outcomes, recordedOutcome{orderID, txHash, outcome})
}

func (n *fakeNotifier) recorded() []recordedOutcome {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]recordedOutcome(nil), n.outcomes...)
}
