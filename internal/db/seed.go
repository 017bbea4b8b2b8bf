package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	seedInterests = []string{"travel", "music", "cooking", "films", "fitness", "reading", "art", "gaming"}
	seedHobbies   = []string{"hiking", "photography", "yoga", "climbing", "running", "painting", "chess"}
	seedEducation = []string{"Imperial College", "UCL", "King's College", "Manchester", ""}
	seedTiers     = []string{TierFree, TierFree, TierFree, TierGold, TierPremium, TierPremiumPlus}
)

// SeedTestData resets the database and populates it with demo users and swipes.
//
// Behavior:
//  1. Clears existing rows in all tables.
//  2. Creates 20 users (10 male, 10 female) with profiles, hashed passwords,
//     mixed subscription tiers and coordinates scattered around London.
//  3. Generates swipes with ~70% likes, guaranteeing some mutual pairs, and
//     creates the matching Match rows for them.
//  4. Adds a couple of blocks so the exclusion paths have data.
//
// Compatible with both MySQL and SQLite.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"notifications", "matches", "blocks", "swipes", "profiles", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE matches AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('users', 'matches', 'notifications')")
	}

	log.Println("Cleared existing data")

	// --- Seed users + profiles (10 male, 10 female) ---
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	for i := 1; i <= 20; i++ {
		gender := "male"
		if i > 10 {
			gender = "female"
		}

		// scatter within roughly 30km of central London
		lat := 51.5074 + (r.Float64()-0.5)*0.5
		lon := -0.1278 + (r.Float64()-0.5)*0.5

		user := User{
			Email:            fmt.Sprintf("user%d@example.com", i),
			PasswordHash:     string(hash),
			SubscriptionTier: seedTiers[r.Intn(len(seedTiers))],
			Verified:         r.Intn(100) < 80,
			Active:           true,
			LastActiveAt:     time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
			Latitude:         &lat,
			Longitude:        &lon,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		profile := Profile{
			UserID:        user.ID,
			Bio:           fmt.Sprintf("Hi, I'm user %d.", i),
			BirthDate:     time.Now().AddDate(-(22 + r.Intn(20)), -r.Intn(12), 0),
			Gender:        gender,
			Interests:     pickSome(r, seedInterests),
			Hobbies:       pickSome(r, seedHobbies),
			Education:     seedEducation[r.Intn(len(seedEducation))],
			Occupation:    "engineer",
			Photos:        StringList{fmt.Sprintf("https://cdn.example.com/photos/%d-1.jpg", i)},
			AgeMin:        20,
			AgeMax:        45,
			MaxDistanceKm: 50,
			ShowMe:        "everyone",
		}
		profile.Completion = profile.CompletionPercent()
		if err := db.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}
	}
	log.Println("Seeded 20 users with profiles.")

	// --- Seed swipes, guaranteeing mutual likes every 3rd pair ---
	counter := 0
	for swiperID := uint64(1); swiperID <= 20; swiperID++ {
		for j := 0; j < 8; j++ {
			swipedID := uint64(r.Intn(20) + 1)
			if swiperID == swipedID {
				continue
			}

			liked := r.Intn(100) < 70
			if counter%3 == 0 {
				liked = true
			}

			swipe := Swipe{SwiperID: swiperID, SwipedID: swipedID, Liked: liked}
			res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&swipe)
			if res.Error != nil {
				return fmt.Errorf("failed to seed swipe: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				continue // pair already decided
			}

			// reciprocal like for guaranteed mutual pairs
			if liked && counter%3 == 0 {
				recip := Swipe{SwiperID: swipedID, SwipedID: swiperID, Liked: true}
				res = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&recip)
				if res.Error == nil && res.RowsAffected > 0 {
					match := NewMatch(swiperID, swipedID)
					db.Clauses(clause.OnConflict{DoNothing: true}).Create(&match)
				}
			}

			counter++
		}
	}
	log.Printf("Seeded %d swipes.", counter)

	// --- A couple of blocks ---
	blocks := []Block{
		{BlockerID: 1, BlockedID: 15},
		{BlockerID: 18, BlockedID: 3},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&blocks).Error; err != nil {
		return fmt.Errorf("failed to seed blocks: %w", err)
	}

	return nil
}

func pickSome(r *rand.Rand, pool []string) StringList {
	n := 1 + r.Intn(4)
	if n > len(pool) {
		n = len(pool)
	}
	perm := r.Perm(len(pool))
	out := make(StringList, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, pool[idx])
	}
	return out
}
