package model

// Doctor is a member of staff that rooms are booked for. Static seed
// data, immutable at runtime.
type Doctor struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Avatar         string `json:"avatar,omitempty"`
}
