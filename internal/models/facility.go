package models

// Facility is a sports venue owned by a FACILITY_OWNER account.
type Facility struct {
	BaseModel
	OwnerID     string  `gorm:"type:uuid;not null;index" json:"ownerId"`
	Owner       *User   `gorm:"foreignKey:OwnerID" json:"-"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description,omitempty"`
	Address     string  `gorm:"not null" json:"address"`
	City        string  `gorm:"not null" json:"city"`
	State       string  `gorm:"not null" json:"state"`
	ZipCode     string  `gorm:"not null" json:"zipCode"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`

	Courts  []Court  `gorm:"foreignKey:FacilityID" json:"courts,omitempty"`
	Reviews []Review `gorm:"foreignKey:FacilityID" json:"-"`
}
