// Package wallet implements the per-customer payment account.
package wallet

import (
	"context"

	"github.com/kilianp07/cabs/core/logger"
	"github.com/kilianp07/cabs/internal/mailbox"
)

// Failed is the balance reported for a refused debit.
const Failed = -1

// Receiver gets the outcome of an asynchronous debit: the new balance, or
// Failed.
type Receiver interface {
	DebitResult(balance int)
}

// ReceiverFunc adapts a function to Receiver.
type ReceiverFunc func(balance int)

func (f ReceiverFunc) DebitResult(balance int) { f(balance) }

type command interface{ isWalletCommand() }

type getBalance struct{ reply chan<- int }

type deduct struct {
	amount  int
	replyTo Receiver
}

type add struct{ amount int }

type reset struct{ reply chan<- int }

func (getBalance) isWalletCommand() {}
func (deduct) isWalletCommand()     {}
func (add) isWalletCommand()        {}
func (reset) isWalletCommand()      {}

// Wallet holds one customer's balance. Only its own goroutine touches the
// balance; everybody else sends messages.
type Wallet struct {
	custID  string
	balance int
	initial int

	inbox *mailbox.Mailbox[command]
	log   logger.Logger
}

// New creates the wallet of custID with the given starting balance.
func New(custID string, balance int, log logger.Logger) *Wallet {
	return &Wallet{
		custID:  custID,
		balance: balance,
		initial: balance,
		inbox:   mailbox.New[command](),
		log:     logger.OrNop(log),
	}
}

// ID returns the customer id.
func (w *Wallet) ID() string { return w.custID }

// Run processes messages until ctx is done.
func (w *Wallet) Run(ctx context.Context) error {
	w.inbox.Run(ctx, w.handle)
	return nil
}

// Deduct asks for amount to be taken from the balance. The outcome goes to
// replyTo.
func (w *Wallet) Deduct(amount int, replyTo Receiver) {
	w.inbox.Send(deduct{amount: amount, replyTo: replyTo})
}

// Add credits amount. Negative amounts are ignored. There is no reply.
func (w *Wallet) Add(amount int) {
	w.inbox.Send(add{amount: amount})
}

// Balance returns the current balance.
func (w *Wallet) Balance(ctx context.Context) (int, error) {
	return mailbox.Ask(ctx, w.inbox, func(r chan<- int) command { return getBalance{reply: r} })
}

// DeductBalance debits amount and returns the new balance, or Failed when the
// amount is negative or larger than the balance.
func (w *Wallet) DeductBalance(ctx context.Context, amount int) (int, error) {
	return mailbox.Ask(ctx, w.inbox, func(r chan<- int) command {
		return deduct{amount: amount, replyTo: chanReceiver(r)}
	})
}

// Reset restores the balance the wallet was created with and returns it.
func (w *Wallet) Reset(ctx context.Context) (int, error) {
	return mailbox.Ask(ctx, w.inbox, func(r chan<- int) command { return reset{reply: r} })
}

type chanReceiver chan<- int

func (c chanReceiver) DebitResult(balance int) { c <- balance }

func (w *Wallet) handle(cmd command) bool {
	switch c := cmd.(type) {
	case getBalance:
		c.reply <- w.balance
	case deduct:
		c.replyTo.DebitResult(w.debit(c.amount))
	case add:
		if c.amount < 0 {
			w.log.Debugf("wallet %s: ignoring negative credit %d", w.custID, c.amount)
			return true
		}
		w.balance += c.amount
	case reset:
		w.balance = w.initial
		c.reply <- w.balance
	}
	return true
}

func (w *Wallet) debit(amount int) int {
	if amount < 0 || amount > w.balance {
		w.log.Debugf("wallet %s: refused debit of %d (balance %d)", w.custID, amount, w.balance)
		return Failed
	}
	w.balance -= amount
	w.log.Debugf("wallet %s: debited %d, balance %d", w.custID, amount, w.balance)
	return w.balance
}
