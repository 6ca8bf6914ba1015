package domain

// Default configuration values
const (
	DefaultOpenHour          = 9
	DefaultCloseHour         = 19
	DefaultSlotStepMinutes   = 60
	DefaultCreateLeadMinutes = 120 // 2 hours
	DefaultCancelLeadMinutes = 120 // 2 hours
	DefaultRescheduleMinutes = 240 // 4 hours
	DefaultHistoryPreview    = 10
)

// Business validation constants
const (
	MinSlotStepMinutes          = 5
	MaxSlotStepMinutes          = 480 // 8 hours
	MaxNotesLength              = 1000
	MaxCancellationReasonLength = 500
	MaxReviewLength             = 2000
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Roles supplied by the auth collaborator
const (
	RoleUser     = "user"
	RoleOperator = "operator"
)

// ActiveStatuses bookings in these states take part in conflict checks
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}
