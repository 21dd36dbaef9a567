package receipt_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/phrazzld/karent-api/internal/domain"
	"github.com/phrazzld/karent-api/internal/receipt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	rr := &domain.RentalReturn{
		ID:              3,
		RentalID:        9,
		ReturnDate:      time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
		LateFee:         5000,
		TotalFee:        55000,
		UserName:        "Budi Santoso",
		CarBrand:        "Toyota",
		CarModel:        "Avanza",
		RentalStartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		RentalEndDate:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		RentalTotalFee:  50000,
	}

	var buf bytes.Buffer
	err := receipt.Render(&buf, rr, time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output should be a PDF document")
	assert.Contains(t, string(bytes.TrimSpace(out[len(out)-16:])), "%%EOF")
}

func TestRenderNonASCIINames(t *testing.T) {
	tests := []struct {
		name    string
		user    string
		brand   string
		want    string
		notWant string
	}{
		{name: "accented customer", user: "José Müller", brand: "Toyota", want: "Jos\xe9 M\xfcller", notWant: "Jos\xc3\xa9"},
		{name: "accented brand", user: "Budi", brand: "Citroën", want: "Citro\xebn", notWant: "Citro\xc3\xabn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := &domain.RentalReturn{
				ID:         4,
				RentalID:   10,
				ReturnDate: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
				UserName:   tt.user,
				CarBrand:   tt.brand,
				CarModel:   "C3",
			}

			var buf bytes.Buffer
			require.NoError(t, receipt.RenderPlain(&buf, rr, time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC)))

			out := buf.String()
			assert.Contains(t, out, tt.want, "text should be cp1252 encoded")
			assert.NotContains(t, out, tt.notWant)
		})
	}
}

func TestRenderNil(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, receipt.Render(&buf, nil, time.Now()))
	assert.Zero(t, buf.Len())
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "karent-receipt-12.pdf", receipt.Filename(&domain.RentalReturn{ID: 12}))
}
