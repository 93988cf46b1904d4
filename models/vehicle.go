package models

type VehicleType string

const (
	VehicleTwoWheel  VehicleType = "2-wheel"
	VehicleFourWheel VehicleType = "4-wheel"
	VehicleTrack     VehicleType = "Track"
	VehicleHarvester VehicleType = "Harvester"
)

var VehicleTypes = []VehicleType{VehicleTwoWheel, VehicleFourWheel, VehicleTrack, VehicleHarvester}

type Vehicle struct {
	ID     string      `json:"id"`
	Name   string      `json:"name" validate:"required"`
	Type   VehicleType `json:"type" validate:"required,oneof=2-wheel 4-wheel Track Harvester"`
	Number string      `json:"number"`
}

func (v Vehicle) EntityID() string { return v.ID }
