package model

type RoomType string

const (
	RoomTypeExamination  RoomType = "examination"
	RoomTypeSurgery      RoomType = "surgery"
	RoomTypeConsultation RoomType = "consultation"
)

// Room is a bookable room. Rooms come from static seed data and are
// immutable for the lifetime of the process.
type Room struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      RoomType `json:"type"`
	Capacity  int      `json:"capacity"`
	Equipment []string `json:"equipment"`
}
