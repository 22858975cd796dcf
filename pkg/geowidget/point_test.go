package geowidget_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/geowidget/pkg/geowidget"
)

const samplePoint = `{
  "name": "KRA010",
  "type": ["parcel_locker"],
  "status": "Operating",
  "location": {"longitude": 19.93658, "latitude": 50.06143},
  "location_type": "Outdoor",
  "location_description": "Przy sklepie",
  "opening_hours": "24/7",
  "operating_hours_extended": {
    "customer": {
      "monday": [{"start": 0, "end": 1439}],
      "sunday": [{"start": 480, "end": 1200}]
    }
  },
  "address": {"line1": "Rynek Główny 1", "line2": "31-042 Kraków"},
  "address_details": {
    "city": "Kraków",
    "province": "małopolskie",
    "post_code": "31-042",
    "street": "Rynek Główny",
    "building_number": "1",
    "flat_number": null
  },
  "phone_number": null,
  "partner_id": 0,
  "is_next": false,
  "payment_available": true,
  "location_247": true,
  "easy_access_zone": false,
  "image_url": "https://static.easypack24.net/points/pl/images/KRA010.jpg",
  "href": "https://api-pl-points.easypack24.net/v1/points/KRA010",
  "unknown_field": {"ignored": true}
}`

func TestDecodePoint(t *testing.T) {
	p, err := geowidget.DecodePoint([]byte(samplePoint))
	require.NoError(t, err)

	assert.Equal(t, "KRA010", p.Name)
	assert.Equal(t, []geowidget.PointType{geowidget.PointParcelLocker}, p.Type)
	assert.InDelta(t, 50.06143, p.Location.Latitude, 1e-9)
	assert.Equal(t, "31-042", p.AddressDetails.PostCode)
	assert.Empty(t, p.AddressDetails.FlatNumber)
	assert.True(t, p.PaymentAvailable)
	assert.True(t, p.Location247)
	require.NotNil(t, p.OperatingHours)
	require.Len(t, p.OperatingHours.Customer.Sunday, 1)
	assert.Equal(t, "08:00-20:00", p.OperatingHours.Customer.Sunday[0].String())
	assert.Equal(t, "00:00-23:59", p.OperatingHours.Customer.Monday[0].String())
	assert.Equal(t, "KRA010 (Rynek Główny 1, 31-042 Kraków)", p.String())
}

func TestDecodePoint_Invalid(t *testing.T) {
	_, err := geowidget.DecodePoint([]byte(`{"name": 12}`))
	assert.Error(t, err)

	_, err = geowidget.DecodePoint([]byte(`not json`))
	assert.Error(t, err)
}

func TestSelectedPoint_StringWithoutAddress(t *testing.T) {
	assert.Equal(t, "POP-1", geowidget.SelectedPoint{Name: "POP-1"}.String())
}
