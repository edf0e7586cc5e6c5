// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types published on the booking queue.
const (
    EventBookingSubmitted = "booking.submitted"
    EventBookingApproved  = "booking.approved"
    EventBookingRejected  = "booking.rejected"
)

// BookingEvent is published when a booking is submitted or decided.  It
// carries enough for downstream consumers to log or notify without
// querying the primary database.
type BookingEvent struct {
    EventID       string `json:"eventId"`
    Type          string `json:"type"`
    BookingID     uint64 `json:"bookingId"`
    PropertyID    uint64 `json:"propertyId"`
    CustomerEmail string `json:"customerEmail"`
    OwnerName     string `json:"ownerName"`
    Status        string `json:"status"`
    TotalCost     int64  `json:"totalCost"`
    CheckInDate   string `json:"checkInDate"`
    CheckOutDate  string `json:"checkOutDate"`
    OccurredAt    string `json:"occurredAt"`
}
