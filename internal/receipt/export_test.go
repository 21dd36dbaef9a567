package receipt

import (
	"io"
	"time"

	"github.com/phrazzld/karent-api/internal/domain"
)

// RenderPlain renders without stream compression so tests can read the text.
func RenderPlain(w io.Writer, rr *domain.RentalReturn, issuedAt time.Time) error {
	return render(w, rr, issuedAt, false)
}
