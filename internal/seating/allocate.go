package seating

import "errors"

var (
	// ErrInvalidRequestCount is returned when the requested count is not positive.
	ErrInvalidRequestCount = errors.New("invalid number of seats requested")
	// ErrTooManyRequested is returned when more seats than a row holds are requested.
	ErrTooManyRequested = errors.New("too many seats requested")
	// ErrInsufficientSeats is returned when fewer than the requested seats are free.
	ErrInsufficientSeats = errors.New("not enough seats available")
)

// MaxPerRequest is the largest count a single booking may ask for.
const MaxPerRequest = SeatsPerRow

// Allocate picks n seats from s.  It first looks for the lowest row that can
// seat the whole party and takes that row's lowest free seats.  When no row
// is wide enough it fills row by row, column by column, until n seats are
// found.  The returned indices are in selection order.  s is never modified.
func Allocate(s Store, n int) ([]int, error) {
	if n < 1 {
		return nil, ErrInvalidRequestCount
	}
	if n > MaxPerRequest {
		return nil, ErrTooManyRequested
	}
	rows := len(s) / SeatsPerRow

	for r := 0; r < rows; r++ {
		free := freeInRow(s, r)
		if len(free) >= n {
			return free[:n], nil
		}
	}

	picked := make([]int, 0, n)
	for r := 0; r < rows && len(picked) < n; r++ {
		for _, idx := range freeInRow(s, r) {
			picked = append(picked, idx)
			if len(picked) == n {
				break
			}
		}
	}
	if len(picked) < n {
		return nil, ErrInsufficientSeats
	}
	return picked, nil
}

func freeInRow(s Store, r int) []int {
	start := r * SeatsPerRow
	free := make([]int, 0, SeatsPerRow)
	for idx := start; idx < start+SeatsPerRow && idx < len(s); idx++ {
		if s[idx] == Available {
			free = append(free, idx)
		}
	}
	return free
}
