package dispatch

import (
	"github.com/kilianp07/cabs/core/cab"
	"github.com/kilianp07/cabs/core/model"
	"github.com/kilianp07/cabs/core/wallet"
)

// CabRef is what an orchestrator needs from a cab.
type CabRef interface {
	RequestRide(source, destination, rideID int, replyTo cab.Requester)
	RideStarted(rideID int, cabID string)
	RideCancelled(rideID int, cabID string)
}

// Payer is what an orchestrator needs from a wallet.
type Payer interface {
	Deduct(amount int, replyTo wallet.Receiver)
}

// Directory resolves entity ids to handles.
type Directory interface {
	LookupCab(id string) (CabRef, bool)
	LookupWallet(custID string) (Payer, bool)
}

// RideReceiver gets the answer to a ride request.
type RideReceiver interface {
	RideResult(model.RideResponse)
}

// RideFunc adapts a function to RideReceiver.
type RideFunc func(model.RideResponse)

func (f RideFunc) RideResult(r model.RideResponse) { f(r) }

// ChanReceiver delivers the answer on ch without blocking. ch should be
// buffered.
func ChanReceiver(ch chan<- model.RideResponse) RideReceiver {
	return RideFunc(func(r model.RideResponse) {
		select {
		case ch <- r:
		default:
		}
	})
}

// Updater receives the cache deltas produced by an orchestrator.
type Updater interface {
	OrchestratorUpdate(entry model.CacheEntry)
}
