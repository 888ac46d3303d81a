package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWallet(t *testing.T, balance int) (*Wallet, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	w := New("201", balance, nil)
	go func() { _ = w.Run(ctx) }()
	return w, ctx
}

func TestWalletDebit(t *testing.T) {
	cases := []struct {
		name    string
		amount  int
		want    int
		balance int
	}{
		{"within balance", 300, 700, 700},
		{"whole balance", 1000, 0, 0},
		{"zero", 0, 1000, 1000},
		{"negative", -5, Failed, 1000},
		{"over balance", 1001, Failed, 1000},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, ctx := startWallet(t, 1000)
			got, err := w.DeductBalance(ctx, c.amount)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
			bal, err := w.Balance(ctx)
			require.NoError(t, err)
			assert.Equal(t, c.balance, bal)
		})
	}
}

func TestWalletCredit(t *testing.T) {
	w, ctx := startWallet(t, 10000)
	w.Add(2000)
	w.Add(-2000)
	bal, err := w.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12000, bal)
}

func TestWalletReset(t *testing.T) {
	w, ctx := startWallet(t, 500)
	w.Add(100)
	_, err := w.DeductBalance(ctx, 50)
	require.NoError(t, err)
	got, err := w.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 500, got)
	bal, err := w.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 500, bal)
}

func TestWalletAsyncDeduct(t *testing.T) {
	w, _ := startWallet(t, 100)
	got := make(chan int, 2)
	w.Deduct(60, ReceiverFunc(func(b int) { got <- b }))
	w.Deduct(60, ReceiverFunc(func(b int) { got <- b }))
	assert.Equal(t, 40, <-got)
	assert.Equal(t, Failed, <-got)
}
