package pricing

// BillableMinutes converts a call duration into started minutes.
// Billing is per started minute: 1s..60s is one minute, 61s is two.
func BillableMinutes(durationSeconds int) int {
	if durationSeconds <= 0 {
		return 0
	}
	m := durationSeconds / 60
	if durationSeconds%60 != 0 {
		m++
	}
	return m
}
