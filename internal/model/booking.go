package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
    StatusPending  BookingStatus = "PENDING"
    StatusApproved BookingStatus = "APPROVED"
    StatusRejected BookingStatus = "REJECTED"
)

// Final reports whether no further transition is possible.
func (s BookingStatus) Final() bool { return s == StatusApproved || s == StatusRejected }

// Booking records a customer's request to stay at a property.  It is
// created PENDING and changes status at most once afterwards; every other
// field is frozen at creation.
//
// Fields:
//  ID             – primary key identifier, assigned by the store.
//  PropertyID     – property being booked.
//  CustomerName   – requester's name.
//  CustomerEmail  – requester's email, used for customer listings.
//  CustomerPhone  – requester's phone.
//  CheckInDate    – first night.
//  CheckOutDate   – departure day, strictly after CheckInDate.
//  NumberOfGuests – 1 to 10.
//  TotalCost      – price in whole currency units, computed at creation.
//  Status         – PENDING, APPROVED or REJECTED.
//  BookingDate    – creation timestamp.
type Booking struct {
    ID             uint64        `json:"id"`             // bookings.id
    PropertyID     uint64        `json:"propertyId"`     // bookings.property_id
    CustomerName   string        `json:"customerName"`   // bookings.customer_name
    CustomerEmail  string        `json:"customerEmail"`  // bookings.customer_email
    CustomerPhone  string        `json:"customerPhone"`  // bookings.customer_phone
    CheckInDate    Date          `json:"checkInDate"`    // bookings.check_in_date
    CheckOutDate   Date          `json:"checkOutDate"`   // bookings.check_out_date
    NumberOfGuests int           `json:"numberOfGuests"` // bookings.number_of_guests
    TotalCost      int64         `json:"totalCost"`      // bookings.total_cost
    Status         BookingStatus `json:"status"`         // bookings.status
    BookingDate    time.Time     `json:"bookingDate"`    // bookings.booking_date
}

// BookingWithProperty pairs a booking with the property it refers to for
// dashboard listings.  Property is nil when the listing was deleted.
type BookingWithProperty struct {
    Booking  Booking   `json:"booking"`
    Property *Property `json:"property"`
}
