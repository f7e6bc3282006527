package models

// SportType enumerates the sports a court can host.
type SportType string

const (
	SportBadminton  SportType = "BADMINTON"
	SportTennis     SportType = "TENNIS"
	SportFootball   SportType = "FOOTBALL"
	SportBasketball SportType = "BASKETBALL"
	SportSquash     SportType = "SQUASH"
	SportTableTenis SportType = "TABLE_TENNIS"
)

// Court is a bookable unit inside a facility.
type Court struct {
	BaseModel
	FacilityID     string    `gorm:"type:uuid;not null;index" json:"facilityId"`
	Facility       *Facility `gorm:"foreignKey:FacilityID" json:"-"`
	Name           string    `gorm:"not null" json:"name"`
	SportType      SportType `gorm:"type:varchar(32);not null" json:"sportType"`
	PricePerHour   float64   `gorm:"not null" json:"pricePerHour"`
	PhotoURL       string    `gorm:"type:text" json:"photoUrl,omitempty"`
	OperatingHours string    `gorm:"type:text" json:"operatingHours,omitempty"`

	Bookings []Booking `gorm:"foreignKey:CourtID" json:"-"`
	Matches  []Match   `gorm:"foreignKey:CourtID" json:"-"`
}
