package holiday

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Holiday struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Date time.Time `gorm:"type:date;not null;uniqueIndex:uq_holiday_date_place,priority:1"`
	Name string    `gorm:"type:varchar(255);not null"`
	// City is stored normalized (uppercase, accents stripped). Empty
	// means the holiday applies everywhere.
	City      string `gorm:"type:varchar(120);uniqueIndex:uq_holiday_date_place,priority:2"`
	State     string `gorm:"type:varchar(2);uniqueIndex:uq_holiday_date_place,priority:3"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

var accentReplacer = strings.NewReplacer(
	"Á", "A", "À", "A", "Â", "A", "Ã", "A",
	"É", "E", "Ê", "E",
	"Í", "I",
	"Ó", "O", "Ô", "O", "Õ", "O",
	"Ú", "U", "Ü", "U", "Ç", "C",
)

// NormalizeCity puts a city name in canonical form so lookups match
// regardless of how the source spelled it.
func NormalizeCity(city string) string {
	return accentReplacer.Replace(strings.ToUpper(strings.TrimSpace(city)))
}
