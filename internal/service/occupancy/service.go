// Package occupancy derives the live occupancy view: which rooms are
// booked right now and how many staff members are watching each one.
// Viewer presence is heartbeat-based with a TTL, so a closed browser
// tab ages out on its own.
package occupancy

import (
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/roomboard/roomboard/internal/model"
	"github.com/roomboard/roomboard/internal/store"
)

// RoomOccupancy is one row of the occupancy view.
type RoomOccupancy struct {
	RoomID   string `json:"roomId"`
	RoomName string `json:"roomName"`
	Occupied bool   `json:"occupied"`
	// BookingID references the booking occupying the room, when any.
	BookingID string `json:"bookingId,omitempty"`
	Viewers   int    `json:"viewers"`
}

type Service struct {
	store    *store.Store
	presence *cache.Cache
}

func NewService(store *store.Store, ttl time.Duration) *Service {
	return &Service{
		store:    store,
		presence: cache.New(ttl, ttl),
	}
}

// Heartbeat records that a viewer is currently watching a room. The
// entry expires on its own if the heartbeats stop.
func (s *Service) Heartbeat(roomID, viewerID string) {
	s.presence.SetDefault(presenceKey(roomID, viewerID), struct{}{})
}

// Snapshot reports every room with its booked state at now and its
// live viewer count.
func (s *Service) Snapshot(now time.Time) []RoomOccupancy {
	viewers := s.viewersByRoom()
	bookings := s.store.Bookings()

	var out []RoomOccupancy
	for _, room := range s.store.Rooms() {
		row := RoomOccupancy{
			RoomID:   room.ID,
			RoomName: room.Name,
			Viewers:  viewers[room.ID],
		}
		for _, b := range bookings {
			if b.RoomID != room.ID || b.Status == model.BookingStatusCancelled {
				continue
			}
			if !b.StartTime.After(now) && b.EndTime.After(now) {
				row.Occupied = true
				row.BookingID = b.ID
				break
			}
		}
		out = append(out, row)
	}
	return out
}

func (s *Service) viewersByRoom() map[string]int {
	counts := make(map[string]int)
	for key := range s.presence.Items() {
		roomID, ok := roomFromKey(key)
		if !ok {
			continue
		}
		counts[roomID]++
	}
	return counts
}

func presenceKey(roomID, viewerID string) string {
	return fmt.Sprintf("%s|%s", roomID, viewerID)
}

func roomFromKey(key string) (string, bool) {
	roomID, _, ok := strings.Cut(key, "|")
	return roomID, ok
}
