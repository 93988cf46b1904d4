package models

// Agent is a referral broker paid a per-hour commission per vehicle type.
type Agent struct {
	ID                 string                  `json:"id"`
	Name               string                  `json:"name" validate:"required"`
	Mobile             string                  `json:"mobile" validate:"required"`
	VehicleCommissions map[VehicleType]float64 `json:"vehicleCommissions"`
}

func (a Agent) EntityID() string { return a.ID }

// DefaultVehicleCommissions are the per-hour rates offered when a new agent is created without rates.
func DefaultVehicleCommissions() map[VehicleType]float64 {
	return map[VehicleType]float64{
		VehicleTwoWheel:  50,
		VehicleFourWheel: 100,
		VehicleTrack:     150,
		VehicleHarvester: 200,
	}
}
