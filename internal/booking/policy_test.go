package booking

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/rental-booking/internal/model"
)

var (
	testNow  = time.Date(2024, 5, 20, 15, 30, 0, 0, time.UTC)
	testProp = &model.Property{ID: 7, Title: "Loft", MonthlyRent: 15000, SecurityDeposit: 3000, OwnerID: 100, OwnerName: "olga"}
)

func req(in, out string, guests int) Request {
	return Request{
		PropertyID:     testProp.ID,
		CheckInDate:    in,
		CheckOutDate:   out,
		NumberOfGuests: guests,
		CustomerName:   " Ann ",
		CustomerEmail:  " Ann@Example.com ",
		CustomerPhone:  "555",
	}
}

func TestComputeCostScenario(t *testing.T) {
	stay, err := Validate(req("2024-06-01", "2024-06-05", 2), testProp, testNow)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if stay.Nights != 4 {
		t.Fatalf("nights = %d, want 4", stay.Nights)
	}
	if got := ComputeCost(stay, *testProp); got != 2000 {
		t.Fatalf("cost = %d, want 2000", got)
	}
}

func TestComputeCostRounds(t *testing.T) {
	stay, err := Validate(req("2024-06-01", "2024-06-02", 1), testProp, testNow)
	if err != nil {
		t.Fatal(err)
	}
	// 1000/30 = 33.33.. -> 33; 1010/30 = 33.67 -> 34
	for rent, want := range map[float64]int64{1000: 33, 1010: 34, 0: 0} {
		if got := ComputeCost(stay, model.Property{MonthlyRent: rent}); got != want {
			t.Errorf("rent %v: cost = %d, want %d", rent, got, want)
		}
	}
}

func TestComputeCostMonotonic(t *testing.T) {
	in := model.NewDate(testNow.AddDate(0, 0, 1))
	var prev int64
	for days := 1; days <= 120; days++ {
		stay := ValidatedStay{CheckIn: in, CheckOut: model.NewDate(in.AddDate(0, 0, days))}
		got := ComputeCost(stay, *testProp)
		if got < prev {
			t.Fatalf("cost decreased at %d days: %d < %d", days, got, prev)
		}
		prev = got
	}

	stay := ValidatedStay{CheckIn: in, CheckOut: model.NewDate(in.AddDate(0, 0, 9))}
	prev = 0
	for rent := 0.0; rent <= 50000; rent += 137.5 {
		got := ComputeCost(stay, model.Property{MonthlyRent: rent})
		if got < prev {
			t.Fatalf("cost decreased at rent %v: %d < %d", rent, got, prev)
		}
		prev = got
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		prop *model.Property
		want error
	}{
		{"unknown property", req("2024-06-01", "2024-06-05", 2), nil, ErrPropertyNotFound},
		{"missing check-in", req("", "2024-06-05", 2), testProp, ErrMissingDates},
		{"missing check-out", req("2024-06-01", "  ", 2), testProp, ErrMissingDates},
		{"unparseable date", req("06/01/2024", "2024-06-05", 2), testProp, ErrMissingDates},
		{"reversed range", req("2024-06-05", "2024-06-01", 2), testProp, ErrInvalidRange},
		{"empty range", req("2024-06-05", "2024-06-05", 2), testProp, ErrInvalidRange},
		{"past check-in", req("2024-05-19", "2024-05-25", 2), testProp, ErrPastCheckIn},
		{"check-in today", req("2024-05-20", "2024-05-21", 2), testProp, nil},
		{"zero guests", req("2024-06-01", "2024-06-05", 0), testProp, ErrInvalidGuestCount},
		{"eleven guests", req("2024-06-01", "2024-06-05", 11), testProp, ErrInvalidGuestCount},
		{"ten guests", req("2024-06-01", "2024-06-05", 10), testProp, nil},
		{"one guest", req("2024-06-01", "2024-06-05", 1), testProp, nil},
		// ordering: range is reported before guests, past before guests
		{"range before guests", req("2024-06-05", "2024-06-01", 0), testProp, ErrInvalidRange},
		{"past before guests", req("2024-05-01", "2024-05-02", 0), testProp, ErrPastCheckIn},
		{"property before dates", req("", "", 0), nil, ErrPropertyNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.req, tt.prop, testNow)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateRejectsEveryNonPositiveRange(t *testing.T) {
	base := model.NewDate(testNow).AddDate(0, 0, 3)
	for back := 0; back <= 40; back++ {
		in := base.Format(model.DateLayout)
		out := base.AddDate(0, 0, -back).Format(model.DateLayout)
		if _, err := Validate(req(in, out, 2), testProp, testNow); !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("%s..%s: err = %v, want InvalidRange", in, out, err)
		}
	}
}

func TestNewBooking(t *testing.T) {
	b, err := NewBooking(req("2024-06-01", "2024-06-05", 3), testProp, testNow)
	if err != nil {
		t.Fatalf("NewBooking: %v", err)
	}
	if b.Status != model.StatusPending {
		t.Errorf("status = %s, want PENDING", b.Status)
	}
	if b.TotalCost != 2000 {
		t.Errorf("total = %d, want 2000 (deposit excluded)", b.TotalCost)
	}
	if b.CustomerEmail != "ann@example.com" || b.CustomerName != "Ann" {
		t.Errorf("customer not normalized: %q %q", b.CustomerName, b.CustomerEmail)
	}
	if b.PropertyID != testProp.ID || b.NumberOfGuests != 3 || !b.BookingDate.Equal(testNow) {
		t.Errorf("unexpected booking %+v", b)
	}
	if b.CheckInDate.String() != "2024-06-01" || b.CheckOutDate.String() != "2024-06-05" {
		t.Errorf("dates = %s..%s", b.CheckInDate, b.CheckOutDate)
	}

	if _, err := NewBooking(req("2024-06-01", "2024-06-05", 0), testProp, testNow); !errors.Is(err, ErrInvalidGuestCount) {
		t.Errorf("err = %v, want InvalidGuestCount", err)
	}
}

func TestTransition(t *testing.T) {
	pending := model.Booking{ID: 1, Status: model.StatusPending}

	approved, err := Transition(pending, model.StatusApproved)
	if err != nil || approved.Status != model.StatusApproved {
		t.Fatalf("approve: %v %s", err, approved.Status)
	}

	for i := 0; i < 2; i++ {
		got, err := Transition(approved, model.StatusRejected)
		if !errors.Is(err, ErrAlreadyFinalized) {
			t.Fatalf("attempt %d: err = %v, want AlreadyFinalized", i, err)
		}
		if got.Status != model.StatusApproved {
			t.Fatalf("attempt %d: status changed to %s", i, got.Status)
		}
	}

	if _, err := Transition(approved, model.StatusApproved); !errors.Is(err, ErrAlreadyFinalized) {
		t.Errorf("re-approve: err = %v", err)
	}

	for _, target := range []model.BookingStatus{model.StatusPending, "CANCELLED", ""} {
		got, err := Transition(pending, target)
		if !errors.Is(err, ErrInvalidTargetStatus) {
			t.Errorf("target %q: err = %v", target, err)
		}
		if got.Status != model.StatusPending {
			t.Errorf("target %q: status changed", target)
		}
	}
}

func TestComputeCostLongStays(t *testing.T) {
	// far beyond what a time.Duration can hold
	stay := ValidatedStay{
		CheckIn:  model.NewDate(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)),
		CheckOut: model.NewDate(time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)),
	}
	if got := ComputeCost(stay, model.Property{MonthlyRent: 30}); got != 3652058 {
		t.Fatalf("cost = %d, want 3652058", got)
	}

	s, err := Validate(req("2024-06-01", "2524-06-01", 2), testProp, testNow)
	if err != nil {
		t.Fatal(err)
	}
	want := int(time.Date(2524, 6, 1, 0, 0, 0, 0, time.UTC).Unix()-time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).Unix()) / 86400
	if s.Nights != want {
		t.Fatalf("nights = %d, want %d", s.Nights, want)
	}
}

func TestRequestGuestCountDecoding(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`2`, 2},
		{`2.0`, 2},
		{`2.5`, 0},
		{`-3`, -3},
		{`1e12`, 2147483647},
		{`"4"`, 4},
		{`null`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			body := `{"propertyId":7,"checkInDate":"2024-06-01","checkOutDate":"2024-06-05","customerName":"Ann","numberOfGuests":` + tt.raw + `}`
			var r Request
			if err := json.Unmarshal([]byte(body), &r); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if r.NumberOfGuests != tt.want || r.PropertyID != 7 || r.CustomerName != "Ann" || r.CheckInDate != "2024-06-01" {
				t.Fatalf("decoded %+v", r)
			}
		})
	}

	var r Request
	if err := json.Unmarshal([]byte(`{"propertyId":7,"checkInDate":"2024-06-01","checkOutDate":"2024-06-05","numberOfGuests":2.5}`), &r); err != nil {
		t.Fatal(err)
	}
	if _, err := Validate(r, testProp, testNow); !errors.Is(err, ErrInvalidGuestCount) {
		t.Fatalf("err = %v, want InvalidGuestCount", err)
	}
}
