package models

// UserRole is the closed set of roles a user account can hold.
type UserRole string

const (
	RoleUser          UserRole = "USER"
	RoleFacilityOwner UserRole = "FACILITY_OWNER"
	RoleAdmin         UserRole = "ADMIN"
)

// Capability names a single granted permission.
type Capability string

const (
	CapBookingsManage   Capability = "bookings:manage"
	CapMatchesManage    Capability = "matches:manage"
	CapReviewsManage    Capability = "reviews:manage"
	CapFacilitiesManage Capability = "facilities:manage"
	CapUsersRead        Capability = "users:read"
)

// ParseUserRole maps a stored role string onto the closed role set,
// defaulting to RoleUser for anything unrecognized.
func ParseUserRole(s string) UserRole {
	switch UserRole(s) {
	case RoleFacilityOwner:
		return RoleFacilityOwner
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// Capabilities is the pure role-to-authority mapping. Every role can book,
// join matches and review; owners additionally manage facilities; admins
// hold everything.
func (r UserRole) Capabilities() []Capability {
	base := []Capability{CapBookingsManage, CapMatchesManage, CapReviewsManage}
	switch r {
	case RoleFacilityOwner:
		return append(base, CapFacilitiesManage)
	case RoleAdmin:
		return append(base, CapFacilitiesManage, CapUsersRead)
	default:
		return base
	}
}

// Has reports whether the role grants the given capability.
func (r UserRole) Has(c Capability) bool {
	for _, got := range r.Capabilities() {
		if got == c {
			return true
		}
	}
	return false
}

// User is the account record. Email is the natural lookup key used by the
// auth flows; Password holds the bcrypt hash and never leaves the server.
type User struct {
	BaseModel
	FirstName         string   `gorm:"not null" json:"firstName"`
	LastName          string   `gorm:"not null" json:"lastName"`
	Email             string   `gorm:"not null;uniqueIndex" json:"email"`
	Password          string   `gorm:"not null" json:"-"`
	PhoneNumber       string   `gorm:"not null" json:"phoneNumber"`
	ProfilePictureURL string   `json:"profilePictureUrl,omitempty"`
	Role              UserRole `gorm:"type:varchar(32);not null;default:USER" json:"role"`

	OwnedFacilities []Facility `gorm:"foreignKey:OwnerID" json:"-"`
	Bookings        []Booking  `gorm:"foreignKey:UserID" json:"-"`
	CreatedMatches  []Match    `gorm:"foreignKey:CreatorID" json:"-"`
	Reviews         []Review   `gorm:"foreignKey:UserID" json:"-"`
}
