package geography

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistricts(t *testing.T) {
	districts := Districts()
	assert.Equal(t, []string{"Gasabo", "Kicukiro", "Nyarugenge"}, districts)
}

func TestHierarchyIsComplete(t *testing.T) {
	for _, d := range Districts() {
		sectors := Sectors(d)
		require.NotEmpty(t, sectors, "district %s has no sectors", d)
		for _, s := range sectors {
			assert.NotEmpty(t, Cells(d, s), "sector %s/%s has no cells", d, s)
		}
	}
}

func TestSectors_UnknownDistrict(t *testing.T) {
	assert.Empty(t, Sectors("Nairobi"))
	assert.Empty(t, Cells("Nairobi", "Westlands"))
	assert.Empty(t, Cells("Gasabo", "Westlands"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		area      string
		location  string
		cell      string
		wantField string // empty means valid
	}{
		{
			name:     "valid district and sector",
			area:     "Gasabo",
			location: "Remera",
		},
		{
			name:     "valid full triple",
			area:     "Gasabo",
			location: "Remera",
			cell:     "Rukiri",
		},
		{
			name:      "unknown district",
			area:      "Huye",
			location:  "Remera",
			wantField: "area",
		},
		{
			name:      "sector not in district",
			area:      "Gasabo",
			location:  "Nairobi",
			wantField: "location",
		},
		{
			name:      "sector belongs to another district",
			area:      "Gasabo",
			location:  "Niboye",
			wantField: "location",
		},
		{
			name:      "cell not in sector",
			area:      "Kicukiro",
			location:  "Gatenga",
			cell:      "Rukiri",
			wantField: "cell",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.area, tt.location, tt.cell)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			var locErr *LocationError
			require.ErrorAs(t, err, &locErr)
			assert.Equal(t, tt.wantField, locErr.Field)
			assert.NotEmpty(t, locErr.Valid)
		})
	}
}

func TestValidate_ShortCircuitsAtDistrict(t *testing.T) {
	err := Validate("Huye", "Nairobi", "Nowhere")
	var locErr *LocationError
	require.ErrorAs(t, err, &locErr)
	assert.Equal(t, "area", locErr.Field)
	assert.Equal(t, Districts(), locErr.Valid)
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	all["Gasabo"]["Remera"][0] = "tampered"
	assert.Equal(t, "Gisozi", Cells("Gasabo", "Remera")[0])
}
