package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList stores a list of strings as a JSON text column, portable across
// MySQL and SQLite. NULL and SQL empty-string scan to an empty (non-nil)
// slice so scoring code never has to distinguish null from empty.
type StringList []string

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	if len(b) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("invalid string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Subscription tiers, ordered by rank for the discovery sort.
const (
	TierFree        = "free"
	TierGold        = "gold"
	TierPremium     = "premium"
	TierPremiumPlus = "premium_plus"
	TierPlatinum    = "platinum"
)

// User table
type User struct {
	ID               uint64 `gorm:"primaryKey;autoIncrement"`
	Email            string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash     string `gorm:"size:255;not null"`
	IsAdmin          bool   `gorm:"default:false"`
	SubscriptionTier string `gorm:"size:32;not null;default:free"`
	Verified         bool   `gorm:"default:false"`
	Active           bool   `gorm:"default:true"`
	LastActiveAt     time.Time
	Latitude         *float64
	Longitude        *float64
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`

	Profile *Profile `gorm:"constraint:OnDelete:CASCADE"`
}

// TierRank encodes the subscription tier as a small integer for sorting:
// platinum/premium_plus > premium/gold > free.
func (u *User) TierRank() int {
	switch u.SubscriptionTier {
	case TierPlatinum, TierPremiumPlus:
		return 2
	case TierPremium, TierGold:
		return 1
	default:
		return 0
	}
}

// HasLocation reports whether the user has geographic coordinates set.
// Users without coordinates are never excluded by distance filters.
func (u *User) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}

// Profile holds the extended attributes owned 1:1 by a User, including the
// discovery preferences used by the candidate filter.
type Profile struct {
	UserID        uint64 `gorm:"primaryKey"`
	Bio           string `gorm:"type:text"`
	BirthDate     time.Time
	Gender        string     `gorm:"size:16"`
	Interests     StringList `gorm:"type:text"`
	Hobbies       StringList `gorm:"type:text"`
	Education     string     `gorm:"size:128"`
	Occupation    string     `gorm:"size:128"`
	Photos        StringList `gorm:"type:text"`
	AgeMin        int        `gorm:"default:18"`
	AgeMax        int        `gorm:"default:99"`
	MaxDistanceKm int        `gorm:"default:100"`
	ShowMe        string     `gorm:"size:16;default:everyone"`
	Completion    int        `gorm:"default:0"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

// CompletionPercent recomputes how complete the profile is, 0-100.
// Required fields (bio, birth date, gender, at least one photo) weigh double
// the optional ones (interests, hobbies, education, occupation).
func (p *Profile) CompletionPercent() int {
	const maxWeight = 4*2 + 4 // 4 required x2, 4 optional x1

	filled := 0
	if p.Bio != "" {
		filled += 2
	}
	if !p.BirthDate.IsZero() {
		filled += 2
	}
	if p.Gender != "" {
		filled += 2
	}
	if len(p.Photos) > 0 {
		filled += 2
	}
	if len(p.Interests) > 0 {
		filled++
	}
	if len(p.Hobbies) > 0 {
		filled++
	}
	if p.Education != "" {
		filled++
	}
	if p.Occupation != "" {
		filled++
	}
	return filled * 100 / maxWeight
}

// Age returns the profile's age in whole years at the given instant.
func (p *Profile) Age(now time.Time) int {
	years := now.Year() - p.BirthDate.Year()
	anniversary := p.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

// Swipe is a directed, append-only like/pass decision.
//
// Composite PK (SwiperID, SwipedID) guarantees one row per direction;
// duplicate inserts are rejected at the service boundary, never overwritten.
//
// idx_swiped_liked(swiped_id, liked, created_at DESC, swiper_id) serves the
// admirers list and the O(1) reciprocity check.
type Swipe struct {
	SwiperID  uint64    `gorm:"primaryKey"`
	SwipedID  uint64    `gorm:"primaryKey;index:idx_swiped_liked,priority:1"`
	Liked     bool      `gorm:"not null;index:idx_swiped_liked,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_swiped_liked,priority:3,sort:desc"`
}

// Match is an undirected pairing created once when reciprocal likes exist.
//
// Invariant: User1ID < User2ID always (canonical pair order), enforced by
// NewMatch, which is the only way matches are constructed. The unique index
// on the pair makes a concurrent double-create a no-op insert, resolved by
// reading the winner back.
type Match struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	User1ID   uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:1"`
	User2ID   uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// NewMatch builds a Match in canonical order (smaller id first).
func NewMatch(a, b uint64) Match {
	if a > b {
		a, b = b, a
	}
	return Match{User1ID: a, User2ID: b}
}

// Other returns the match partner of the given user.
func (m *Match) Other(userID uint64) uint64 {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// Block is a directed suppression record. A block in either direction hides
// both users from each other in discovery and forbids swipes between them.
type Block struct {
	BlockerID uint64    `gorm:"primaryKey"`
	BlockedID uint64    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Notification kinds.
const (
	NotificationNewMatch = "new_match"
)

// Notification is an append-only per-user event record.
type Notification struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"not null;index:idx_notif_user_created,priority:1"`
	Kind      string    `gorm:"size:32;not null"`
	ActorID   uint64    `gorm:"not null"`
	Read      bool      `gorm:"default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_notif_user_created,priority:2,sort:desc"`
}
