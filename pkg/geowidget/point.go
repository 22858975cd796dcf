package geowidget

import (
	"encoding/json"
	"fmt"
)

// PointType filters the kinds of points shown on the map
type PointType string

const (
	PointParcelLocker     PointType = "parcel_locker"
	PointParcelLockerOnly PointType = "parcel_locker_only"
	PointPOP              PointType = "pop"
)

// Position is a map coordinate
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Address is the two display lines of a point address
type Address struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

// AddressDetails is the structured point address
type AddressDetails struct {
	City           string `json:"city"`
	Province       string `json:"province"`
	PostCode       string `json:"post_code"`
	Street         string `json:"street"`
	BuildingNumber string `json:"building_number"`
	FlatNumber     string `json:"flat_number"`
}

// TimeRange is an opening window in minutes after midnight
type TimeRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r TimeRange) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", r.Start/60, r.Start%60, r.End/60, r.End%60)
}

// WeeklyHours lists opening windows per weekday
type WeeklyHours struct {
	Monday    []TimeRange `json:"monday"`
	Tuesday   []TimeRange `json:"tuesday"`
	Wednesday []TimeRange `json:"wednesday"`
	Thursday  []TimeRange `json:"thursday"`
	Friday    []TimeRange `json:"friday"`
	Saturday  []TimeRange `json:"saturday"`
	Sunday    []TimeRange `json:"sunday"`
}

// OperatingHours groups weekly hours by audience
type OperatingHours struct {
	Customer WeeklyHours `json:"customer"`
}

// SelectedPoint is the record delivered by the widget when the user picks a
// point. It is treated as read-only.
type SelectedPoint struct {
	Name                string          `json:"name"`
	Type                []PointType     `json:"type"`
	Status              string          `json:"status"`
	Location            Position        `json:"location"`
	LocationType        string          `json:"location_type"`
	LocationDescription string          `json:"location_description"`
	OpeningHours        string          `json:"opening_hours"`
	OperatingHours      *OperatingHours `json:"operating_hours_extended,omitempty"`
	Address             Address         `json:"address"`
	AddressDetails      AddressDetails  `json:"address_details"`
	PhoneNumber         string          `json:"phone_number,omitempty"`
	PaymentPointDescr   string          `json:"payment_point_descr,omitempty"`
	Functions           []string        `json:"functions,omitempty"`
	PartnerID           int             `json:"partner_id"`
	IsNext              bool            `json:"is_next"`
	PaymentAvailable    bool            `json:"payment_available"`
	Location247         bool            `json:"location_247"`
	EasyAccessZone      bool            `json:"easy_access_zone"`
	ImageURL            string          `json:"image_url,omitempty"`
	Href                string          `json:"href,omitempty"`
}

// DecodePoint parses the JSON form of a selected point
func DecodePoint(data []byte) (SelectedPoint, error) {
	var p SelectedPoint
	if err := json.Unmarshal(data, &p); err != nil {
		return SelectedPoint{}, fmt.Errorf("decode point: %w", err)
	}
	return p, nil
}

// String renders the point the way the widget lists it
func (p SelectedPoint) String() string {
	if p.Address.Line1 == "" && p.Address.Line2 == "" {
		return p.Name
	}
	return fmt.Sprintf("%s (%s, %s)", p.Name, p.Address.Line1, p.Address.Line2)
}
