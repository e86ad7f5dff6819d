package models

import "strconv"

// Key addresses one value in the ledger's key-value state.
type Key string

const (
	// KeyAllData holds the aggregate Counters.
	KeyAllData Key = "ALL_DATA"
	// KeySequence holds the raw create sequence, kept apart from Counters.Total.
	KeySequence Key = "C_DATA"
)

const (
	dataPrefix         = "Data:"
	adminControlPrefix = "AdminControl:"
)

// DataKey addresses the HealthRecord for id.
func DataKey(id uint64) Key {
	return Key(dataPrefix + strconv.FormatUint(id, 10))
}

// AdminControlKey addresses the AccessGrant for id.
func AdminControlKey(id uint64) Key {
	return Key(adminControlPrefix + strconv.FormatUint(id, 10))
}

func (k Key) String() string {
	return string(k)
}
