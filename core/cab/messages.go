package cab

import "github.com/kilianp07/cabs/core/model"

type command interface{ isCabCommand() }

type signIn struct{ pos int }

type signOut struct{}

type rideEnded struct{ rideID int }

type requestRide struct {
	source      int
	destination int
	rideID      int
	replyTo     Requester
}

type rideStarted struct {
	rideID int
	cabID  string
}

type rideCancelled struct {
	rideID int
	cabID  string
}

type getStatus struct{ reply chan<- model.CabStatus }

type rideCount struct{ reply chan<- int }

type reset struct{ reply chan<- int }

func (signIn) isCabCommand()        {}
func (signOut) isCabCommand()       {}
func (rideEnded) isCabCommand()     {}
func (requestRide) isCabCommand()   {}
func (rideStarted) isCabCommand()   {}
func (rideCancelled) isCabCommand() {}
func (getStatus) isCabCommand()     {}
func (rideCount) isCabCommand()     {}
func (reset) isCabCommand()         {}
