package appointments

import (
	"context"
	"time"

	"clinic-server/internal/models"
)

// DefaultBuffer is the minimum gap enforced between consecutive bookings for
// the same doctor, beyond mere non-overlap.
const DefaultBuffer = 15 * time.Minute

// hasConflict reports whether booking the doctor for [start, start+duration)
// would overlap, within the buffer, any of the doctor's active appointments.
// A missing doctor id means no conflict is possible: free-text-only doctor
// appointments are never conflict-checked.
func hasConflict(ctx context.Context, st Store, doctorUserID string, start time.Time, durationMinutes int, buffer time.Duration) (bool, error) {
	if doctorUserID == "" {
		return false, nil
	}
	if durationMinutes <= 0 {
		durationMinutes = models.DefaultDurationMinutes
	}
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	// Any appointment that can still bleed into the buffered window starts no
	// earlier than start - buffer - maxDuration; none relevant starts at or
	// past end + buffer.
	scanFrom := start.Add(-buffer - models.MaxDurationMinutes*time.Minute)
	scanTo := end.Add(buffer)

	existing, err := st.ActiveForDoctor(ctx, doctorUserID, scanFrom, scanTo)
	if err != nil {
		return false, err
	}
	for i := range existing {
		if overlapsBuffered(&existing[i], start, end, buffer) {
			return true, nil
		}
	}
	return false, nil
}

// overlapsBuffered applies the double-sided buffered-interval test. A naive
// start < existingEnd && end > existingStart check would accept back-to-back
// bookings that leave no gap at all; the buffer rejects anything scheduled
// tighter than buffer on either side.
//
// Boundary convention (both comparisons strict on the buffered edge): an
// existing 30-minute appointment at T with a 15-minute buffer rejects a
// candidate starting at T+44 and accepts one starting at T+45.
func overlapsBuffered(existing *models.Appointment, start, end time.Time, buffer time.Duration) bool {
	s := existing.StartTime
	e := existing.EndTime()

	// Earlier appointment bleeding forward into the buffered window.
	if !s.After(start) && e.After(start.Add(-buffer)) {
		return true
	}
	// Appointment beginning inside the buffered forward window.
	if !s.Before(start) && s.Before(end.Add(buffer)) {
		return true
	}
	return false
}
