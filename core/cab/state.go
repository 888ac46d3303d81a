package cab

import "github.com/kilianp07/cabs/core/model"

func (c *Cab) handle(cmd command) bool {
	switch m := cmd.(type) {
	case signIn:
		c.onSignIn(m)
	case signOut:
		c.onSignOut()
	case rideEnded:
		c.onRideEnded(m)
	case requestRide:
		c.onRequestRide(m)
	case rideStarted:
		c.onRideStarted(m)
	case rideCancelled:
		c.onRideCancelled(m)
	case getStatus:
		m.reply <- c.status()
	case rideCount:
		m.reply <- c.ridesGiven
	case reset:
		m.reply <- c.onReset()
	}
	return true
}

func (c *Cab) onSignIn(m signIn) {
	if m.pos < 0 {
		c.log.Debugf("cab %s: sign-in at negative position %d ignored", c.id, m.pos)
		return
	}
	if c.major == model.SignedIn {
		c.log.Debugf("cab %s: already signed in", c.id)
		return
	}
	c.clear()
	c.position = m.pos
	c.major = model.SignedIn
	c.minor = model.Available
	c.log.Infof("cab %s signed in at %d", c.id, m.pos)
	if s := c.pickShard(); s != nil {
		s.CabSignedIn(c.id, c.position)
	}
}

func (c *Cab) onSignOut() {
	if c.major == model.SignedOut {
		c.log.Debugf("cab %s: already signed out", c.id)
		return
	}
	if c.minor != model.Available {
		c.log.Debugf("cab %s: cannot sign out while %s", c.id, c.minor)
		return
	}
	c.signOut()
}

func (c *Cab) onRequestRide(m requestRide) {
	if !model.ValidLocations(m.source, m.destination) || c.major == model.SignedOut {
		m.replyTo.CabReply(c.id, model.NotInterested)
		return
	}
	switch {
	case c.minor == model.Available && !c.lastRideAccepted:
		c.minor = model.Committed
		c.rideID = m.rideID
		c.source = m.source
		c.destination = m.destination
		c.lastRideAccepted = true
		c.requester = m.replyTo
		c.log.Infof("cab %s committed to ride %d", c.id, m.rideID)
		m.replyTo.CabReply(c.id, model.Interested)
	case c.minor == model.Available:
		c.lastRideAccepted = false
		c.log.Debugf("cab %s declined ride %d", c.id, m.rideID)
		m.replyTo.CabReply(c.id, model.NotInterested)
	default:
		m.replyTo.CabReply(c.id, model.Busy)
	}
}

func (c *Cab) onRideStarted(m rideStarted) {
	if !c.holds(m.rideID, m.cabID, model.Committed) {
		c.log.Debugf("cab %s: stale ride-started for %d", c.id, m.rideID)
		return
	}
	c.minor = model.GivingRide
	c.ridesGiven++
	c.position = c.source
	c.log.Infof("cab %s started ride %d", c.id, m.rideID)
}

func (c *Cab) onRideCancelled(m rideCancelled) {
	if !c.holds(m.rideID, m.cabID, model.Committed) {
		c.log.Debugf("cab %s: stale ride-cancelled for %d", c.id, m.rideID)
		return
	}
	c.minor = model.Available
	c.clearRide()
	c.log.Infof("cab %s released ride %d", c.id, m.rideID)
}

func (c *Cab) onRideEnded(m rideEnded) {
	if !c.minor.OnRide() || m.rideID != c.rideID {
		c.log.Debugf("cab %s: ride-ended %d does not match current ride %d", c.id, m.rideID, c.rideID)
		return
	}
	c.endRide()
}

func (c *Cab) onReset() int {
	if c.minor == model.GivingRide {
		c.endRide()
	}
	rides := c.ridesGiven
	c.signOut()
	return rides
}

func (c *Cab) endRide() {
	rideID, requester := c.rideID, c.requester
	c.position = c.destination
	c.minor = model.Available
	c.clearRide()
	c.log.Infof("cab %s ended ride %d at %d", c.id, rideID, c.position)
	if requester != nil {
		requester.RideEnded(rideID)
	}
}

func (c *Cab) signOut() {
	c.clear()
	c.log.Infof("cab %s signed out", c.id)
	if s := c.pickShard(); s != nil {
		s.CabSignedOut(c.id)
	}
}

func (c *Cab) holds(rideID int, cabID string, minor model.MinorState) bool {
	return c.major == model.SignedIn && c.minor == minor && c.rideID == rideID && c.id == cabID
}

func (c *Cab) clear() {
	c.position = model.NoRide
	c.major = model.SignedOut
	c.minor = model.MinorNone
	c.lastRideAccepted = false
	c.ridesGiven = 0
	c.clearRide()
}

func (c *Cab) clearRide() {
	c.rideID = model.NoRide
	c.source = model.NoRide
	c.destination = model.NoRide
	c.requester = nil
}

func (c *Cab) pickShard() Dispatcher {
	if c.shards == nil || c.shards.Len() == 0 {
		return nil
	}
	return c.shards.Shard(c.rng.Intn(c.shards.Len()))
}

func (c *Cab) status() model.CabStatus {
	return model.CabStatus{
		CabID:      c.id,
		Major:      c.major,
		Minor:      c.minor,
		MajorState: c.major.String(),
		MinorState: c.minor.String(),
		Position:   c.position,
		RideID:     c.rideID,
		RidesGiven: c.ridesGiven,
	}
}
