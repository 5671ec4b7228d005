package dto

type TrainRequest struct {
	CarID      int64  `json:"carId"`
	Preference string `json:"preference"`
}
