package domain

// TimeSlotID identifies one of the fixed pickup windows.
type TimeSlotID string

const (
	SlotMorning   TimeSlotID = "morning"
	SlotAfternoon TimeSlotID = "afternoon"
	SlotEvening   TimeSlotID = "evening"
	SlotNight     TimeSlotID = "night"
)

// TimeSlot is immutable reference data. Times are HH:mm (24h).
type TimeSlot struct {
	ID        TimeSlotID `json:"id"`
	Label     string     `json:"label"`
	StartTime string     `json:"startTime"`
	EndTime   string     `json:"endTime"`
}

// timeSlots is ordered by start time.
var timeSlots = [...]TimeSlot{
	{ID: SlotMorning, Label: "10:00 AM - 1:00 PM", StartTime: "10:00", EndTime: "13:00"},
	{ID: SlotAfternoon, Label: "1:00 PM - 4:00 PM", StartTime: "13:00", EndTime: "16:00"},
	{ID: SlotEvening, Label: "4:00 PM - 7:00 PM", StartTime: "16:00", EndTime: "19:00"},
	{ID: SlotNight, Label: "7:00 PM - 10:00 PM", StartTime: "19:00", EndTime: "22:00"},
}

// TimeSlots returns a copy of the slot table.
func TimeSlots() []TimeSlot {
	out := make([]TimeSlot, len(timeSlots))
	copy(out, timeSlots[:])
	return out
}

// LookupTimeSlot returns the slot for id.
func LookupTimeSlot(id TimeSlotID) (TimeSlot, bool) {
	switch id {
	case SlotMorning:
		return timeSlots[0], true
	case SlotAfternoon:
		return timeSlots[1], true
	case SlotEvening:
		return timeSlots[2], true
	case SlotNight:
		return timeSlots[3], true
	}
	return TimeSlot{}, false
}

// Valid reports whether id is one of the fixed slots.
func (id TimeSlotID) Valid() bool {
	_, ok := LookupTimeSlot(id)
	return ok
}
