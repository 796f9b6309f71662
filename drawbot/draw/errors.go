package draw

import "errors"

var (
	ErrEmptyPrize          = errors.New("prize must not be empty")
	ErrInvalidDuration     = errors.New("duration must be between 1 and 10080 minutes")
	ErrInvalidWinnersCount = errors.New("winners count must be between 1 and 100")
	ErrNotFound            = errors.New("draw not found")
	ErrAlreadyEnded        = errors.New("draw has already ended")
)

const (
	MinDurationMinutes = 1
	MaxDurationMinutes = 10080 // 7 days
	MinWinnersCount    = 1
	MaxWinnersCount    = 100
	MaxHistoryLimit    = 20
)
