package models

// Counters is the single aggregate tally kept next to the records.
//
// The fields are signed: granting access decrements Pending with no floor,
// so Pending can legitimately go below zero.
type Counters struct {
	Granted int64 `json:"granted"`
	Pending int64 `json:"pending"`
	Revoked int64 `json:"revoked"`
	Total   int64 `json:"total"`
}

// ApplyCreate accounts for a new record and returns its id.
func (c *Counters) ApplyCreate() uint64 {
	c.Pending++
	c.Total++
	return uint64(c.Total)
}

// ApplyRevoke accounts for a revocation. Pending is left untouched.
func (c *Counters) ApplyRevoke() {
	c.Revoked++
}

// ApplyGrant accounts for a granted access request.
func (c *Counters) ApplyGrant() {
	c.Granted++
	c.Pending--
}

// Drift is total minus the sum of the three states. Every revocation moves it
// one below zero because revoking never releases the pending slot.
func (c Counters) Drift() int64 {
	return c.Total - (c.Pending + c.Granted + c.Revoked)
}
