package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Govind-619/MintSphere/blockchain"
	"github.com/Govind-619/MintSphere/metrics"
	"github.com/Govind-619/MintSphere/models"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/jonboulle/clockwork"
)

// Monitor defaults
const (
	DefaultPollInterval          = 10 * time.Second
	DefaultMonitorTimeout        = 30 * time.Minute
	DefaultRequiredConfirmations = 3
)

// Failure reasons written to orders
const (
	ReasonReverted = "Transaction reverted on-chain"
	ReasonNotFound = "Transaction not found on blockchain"
	ReasonTimeout  = "Transaction monitoring timeout"
)

// TxOutcome is how a monitored transaction ended
type TxOutcome string

const (
	OutcomeConfirmed TxOutcome = "confirmed"
	OutcomeReverted  TxOutcome = "reverted"
	OutcomeNotFound  TxOutcome = "not_found"
	OutcomeTimeout   TxOutcome = "timeout"
)

// ChainReader answers receipt and existence queries for a transaction hash
type ChainReader interface {
	TransactionReceipt(ctx context.Context, txHash string) (*blockchain.Receipt, error)
	TransactionExists(ctx context.Context, txHash string) (bool, error)
}

// OrderStateWriter persists monitor decisions on orders
type OrderStateWriter interface {
	SetOrderTransactionState(ctx context.Context, orderID uint, state models.OrderTransactionState) error
	// FailOrderIfPending marks the order failed only if its status is still
	// pending, as one conditional write. It reports whether a row changed.
	FailOrderIfPending(ctx context.Context, orderID uint, reason string) (bool, error)
}

// OutcomeNotifier is told about terminal outcomes after they are written
type OutcomeNotifier interface {
	NotifyOutcome(ctx context.Context, orderID uint, txHash string, outcome TxOutcome)
}

// MonitoredOrder describes one active registration
type MonitoredOrder struct {
	OrderID   uint      `json:"order_id"`
	TxHash    string    `json:"transaction_hash"`
	StartedAt time.Time `json:"started_at"`
}

type registration struct {
	MonitoredOrder
	cancel context.CancelFunc
	done   chan struct{}
}

// TransactionMonitor polls the chain for the transactions attached to orders
// and moves each order to the state its receipt implies. Registrations live
// only in memory; at most one poll runs per order.
type TransactionMonitor struct {
	chain    ChainReader
	orders   OrderStateWriter
	notifier OutcomeNotifier
	clock    clockwork.Clock

	pollInterval          time.Duration
	timeout               time.Duration
	requiredConfirmations uint64

	mu     sync.Mutex
	active map[uint]*registration
}

// MonitorOption configures a TransactionMonitor
type MonitorOption func(*TransactionMonitor)

// WithClock replaces the wall clock
func WithClock(clock clockwork.Clock) MonitorOption {
	return func(m *TransactionMonitor) { m.clock = clock }
}

// WithPollInterval sets the time between checks
func WithPollInterval(d time.Duration) MonitorOption {
	return func(m *TransactionMonitor) {
		if d > 0 {
			m.pollInterval = d
		}
	}
}

// WithTimeout sets how long an order is polled before it is given up on
func WithTimeout(d time.Duration) MonitorOption {
	return func(m *TransactionMonitor) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithRequiredConfirmations sets the depth at which a receipt counts as final
func WithRequiredConfirmations(n uint64) MonitorOption {
	return func(m *TransactionMonitor) {
		if n > 0 {
			m.requiredConfirmations = n
		}
	}
}

// WithNotifier registers a listener for terminal outcomes
func WithNotifier(n OutcomeNotifier) MonitorOption {
	return func(m *TransactionMonitor) { m.notifier = n }
}

// NewTransactionMonitor creates a monitor. chain may be nil, in which case Start always fails.
func NewTransactionMonitor(chain ChainReader, orders OrderStateWriter, opts ...MonitorOption) *TransactionMonitor {
	m := &TransactionMonitor{
		chain:                 chain,
		orders:                orders,
		clock:                 clockwork.NewRealClock(),
		pollInterval:          DefaultPollInterval,
		timeout:               DefaultMonitorTimeout,
		requiredConfirmations: DefaultRequiredConfirmations,
		active:                make(map[uint]*registration),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins polling txHash on behalf of orderID. A poll already running
// for the order is cancelled and waited for first.
func (m *TransactionMonitor) Start(orderID uint, txHash string) error {
	if m.chain == nil {
		return ErrChainUnavailable
	}
	if txHash == "" {
		return ErrMissingTxHash
	}

	ctx, cancel := context.WithCancel(context.Background())
	reg := &registration{
		MonitoredOrder: MonitoredOrder{OrderID: orderID, TxHash: txHash, StartedAt: m.clock.Now()},
		cancel:         cancel,
		done:           make(chan struct{}),
	}

	m.mu.Lock()
	prev := m.active[orderID]
	m.active[orderID] = reg
	count := len(m.active)
	m.mu.Unlock()

	if prev != nil {
		utils.LogInfo("Replacing transaction monitor for order %d (%s -> %s)", orderID, prev.TxHash, txHash)
		prev.cancel()
		<-prev.done
	}
	metrics.MonitorActive.Set(float64(count))

	utils.LogInfo("Started monitoring transaction %s for order %d", txHash, orderID)
	go m.run(ctx, reg)
	return nil
}

// Stop cancels the poll for orderID. It reports whether one was running.
func (m *TransactionMonitor) Stop(orderID uint) bool {
	m.mu.Lock()
	reg, ok := m.active[orderID]
	if ok {
		delete(m.active, orderID)
	}
	count := len(m.active)
	m.mu.Unlock()

	if !ok {
		return false
	}
	metrics.MonitorActive.Set(float64(count))
	reg.cancel()
	<-reg.done
	utils.LogInfo("Stopped monitoring order %d", orderID)
	return true
}

// StopAll cancels every poll and waits for them to exit
func (m *TransactionMonitor) StopAll() {
	m.mu.Lock()
	regs := m.active
	m.active = make(map[uint]*registration)
	m.mu.Unlock()

	for _, reg := range regs {
		reg.cancel()
	}
	for _, reg := range regs {
		<-reg.done
	}
	metrics.MonitorActive.Set(0)
	utils.LogInfo("Stopped all transaction monitors (%d)", len(regs))
}

// IsMonitoring reports whether orderID has an active poll
func (m *TransactionMonitor) IsMonitoring(orderID uint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.active[orderID]
	return ok
}

// Active lists the current registrations ordered by order id
func (m *TransactionMonitor) Active() []MonitoredOrder {
	m.mu.Lock()
	out := make([]MonitoredOrder, 0, len(m.active))
	for _, reg := range m.active {
		out = append(out, reg.MonitoredOrder)
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out
}

func (m *TransactionMonitor) run(ctx context.Context, reg *registration) {
	defer close(reg.done)

	ticker := m.clock.NewTicker(m.pollInterval)
	defer ticker.Stop()
	deadline := m.clock.NewTimer(m.timeout)
	defer deadline.Stop()

	if m.check(ctx, reg) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline.Chan():
			m.expire(reg)
			return
		case <-ticker.Chan():
			if m.check(ctx, reg) {
				return
			}
		}
	}
}

// check runs one poll and reports whether the registration has ended
func (m *TransactionMonitor) check(parent context.Context, reg *registration) bool {
	if parent.Err() != nil {
		return true
	}
	ctx, cancel := context.WithTimeout(parent, m.pollInterval)
	defer cancel()

	receipt, err := m.chain.TransactionReceipt(ctx, reg.TxHash)
	if err != nil {
		utils.LogError("Receipt lookup failed for transaction %s (order %d): %v", reg.TxHash, reg.OrderID, err)
	}

	if err == nil && receipt != nil {
		return m.applyReceipt(ctx, reg, receipt)
	}

	exists, err := m.chain.TransactionExists(ctx, reg.TxHash)
	if err != nil {
		metrics.MonitorPollErrors.Inc()
		utils.LogError("Transaction lookup failed for %s (order %d), retrying next tick: %v", reg.TxHash, reg.OrderID, err)
		return false
	}
	if exists {
		utils.LogDebug("Transaction %s for order %d not yet mined", reg.TxHash, reg.OrderID)
		return false
	}

	return m.finish(ctx, reg, OutcomeNotFound, models.OrderTransactionState{
		Status:            models.OrderStatusFailed,
		TransactionStatus: models.TxStatusFailed,
		FailureReason:     models.StringPtr(ReasonNotFound),
	})
}

func (m *TransactionMonitor) applyReceipt(ctx context.Context, reg *registration, receipt *blockchain.Receipt) bool {
	if !receipt.Success {
		return m.finish(ctx, reg, OutcomeReverted, models.OrderTransactionState{
			Status:            models.OrderStatusFailed,
			TransactionStatus: models.TxStatusFailed,
			FailureReason:     models.StringPtr(ReasonReverted),
		})
	}

	if receipt.Confirmations >= m.requiredConfirmations {
		return m.finish(ctx, reg, OutcomeConfirmed, models.OrderTransactionState{
			Status:            models.OrderStatusCompleted,
			TransactionStatus: models.TxStatusConfirmed,
		})
	}

	utils.LogInfo("Transaction %s for order %d has %d/%d confirmations",
		reg.TxHash, reg.OrderID, receipt.Confirmations, m.requiredConfirmations)
	err := m.orders.SetOrderTransactionState(ctx, reg.OrderID, models.OrderTransactionState{
		Status:            models.OrderStatusProcessing,
		TransactionStatus: models.TxStatusPending,
	})
	if err != nil {
		utils.LogError("Failed to mark order %d processing: %v", reg.OrderID, err)
	}
	return false
}

// finish writes a terminal state and releases the registration. A failed
// write keeps the registration so the next tick tries again.
func (m *TransactionMonitor) finish(ctx context.Context, reg *registration, outcome TxOutcome, state models.OrderTransactionState) bool {
	if err := m.orders.SetOrderTransactionState(ctx, reg.OrderID, state); err != nil {
		utils.LogError("Failed to record %s for order %d: %v", outcome, reg.OrderID, err)
		return false
	}

	m.release(reg)
	metrics.MonitorOutcomes.WithLabelValues(string(outcome)).Inc()
	utils.LogInfo("Transaction %s for order %d finished: %s", reg.TxHash, reg.OrderID, outcome)
	m.notify(reg, outcome)
	return true
}

func (m *TransactionMonitor) expire(reg *registration) {
	m.release(reg)

	// the registration context may already be cancelled by the time the deadline fires
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	failed, err := m.orders.FailOrderIfPending(ctx, reg.OrderID, ReasonTimeout)
	if err != nil {
		utils.LogError("Failed to time out order %d: %v", reg.OrderID, err)
		return
	}
	if !failed {
		utils.LogInfo("Monitoring of order %d timed out; order no longer pending, left unchanged", reg.OrderID)
		return
	}

	metrics.MonitorOutcomes.WithLabelValues(string(OutcomeTimeout)).Inc()
	utils.LogInfo("Transaction %s for order %d finished: %s", reg.TxHash, reg.OrderID, OutcomeTimeout)
	m.notify(reg, OutcomeTimeout)
}

// release drops reg from the registry unless it was already replaced
func (m *TransactionMonitor) release(reg *registration) {
	m.mu.Lock()
	if cur, ok := m.active[reg.OrderID]; ok && cur == reg {
		delete(m.active, reg.OrderID)
	}
	count := len(m.active)
	m.mu.Unlock()
	metrics.MonitorActive.Set(float64(count))
}

func (m *TransactionMonitor) notify(reg *registration, outcome TxOutcome) {
	if m.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	m.notifier.NotifyOutcome(ctx, reg.OrderID, reg.TxHash, outcome)
}
