package traffic

// Green time grows with the detected vehicle count and is capped so a busy
// lane cannot starve the rest of the intersection.
const (
	BaseGreenTime     = 30 // seconds granted regardless of traffic
	MaxGreenTime      = 90 // upper bound on any green window
	secondsPerVehicle = 1.5
)

// GreenTime computes the green light duration in seconds for a lane with
// the given vehicle count.
func GreenTime(vehicleCount int) int {
	greenTime := float64(BaseGreenTime) + float64(vehicleCount)*secondsPerVehicle
	if greenTime > MaxGreenTime {
		return MaxGreenTime
	}
	return int(greenTime)
}
