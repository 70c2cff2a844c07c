package history

import (
	"time"

	"github.com/thiaworld/buyback-go/internal/modules/rates"
)

// RecordType classifies a confirmed user action
type RecordType string

const (
	TypeBuyback       RecordType = "Buyback"
	TypeStoreVisit    RecordType = "Store Visit"
	TypePickupBooking RecordType = "Pickup Booking"
)

// DisbursementMode is how the buyback value (or visit) is settled
type DisbursementMode string

const (
	ModeWallet       DisbursementMode = "Wallet"
	ModeBankTransfer DisbursementMode = "Bank Transfer"
	ModeVisit        DisbursementMode = "Visit"
	ModePickup       DisbursementMode = "Pickup"
)

// Record is one entry in the append-only buyback/booking ledger.
// Metal, weight and value are absent for visit/pickup bookings.
type Record struct {
	ID               string           `json:"id"`
	Type             RecordType       `json:"type"`
	Metal            *rates.Metal     `json:"metal,omitempty"`
	WeightGrams      *float64         `json:"weight_grams,omitempty"`
	Value            *float64         `json:"value,omitempty"`
	Date             string           `json:"date"` // YYYY-MM-DD
	DisbursementMode DisbursementMode `json:"disbursement_mode"`
	Branch           *string          `json:"branch,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}
