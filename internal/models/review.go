package models

// Review is a user's rating and comment for a facility.
type Review struct {
	BaseModel
	UserID     string    `gorm:"type:uuid;not null;index" json:"userId"`
	User       *User     `gorm:"foreignKey:UserID" json:"-"`
	FacilityID string    `gorm:"type:uuid;not null;index" json:"facilityId"`
	Facility   *Facility `gorm:"foreignKey:FacilityID" json:"-"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment,omitempty"`
}
