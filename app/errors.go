package app

import "errors"

var (
	// ErrUnknownCab is returned when no cab has the requested id.
	ErrUnknownCab = errors.New("unknown cab")
	// ErrUnknownWallet is returned when no customer has the requested id.
	ErrUnknownWallet = errors.New("unknown wallet")
	// ErrUnknownShard is returned for a shard index outside [0, N).
	ErrUnknownShard = errors.New("unknown shard")
)
