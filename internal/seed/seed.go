// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// Groups overrides the built-in group presets when non-empty.
	Groups []models.Group
}

// groupPresets are the categories every seeded database starts with.
var groupPresets = []models.Group{
	{Title: "Technology", Slug: "technology", Description: "Hardware, software and everything in between."},
	{Title: "Books", Slug: "books", Description: "What we are reading and why it matters."},
	{Title: "Travel", Slug: "travel", Description: "Field notes from the road."},
	{Title: "Food", Slug: "food", Description: "Recipes, restaurants and kitchen failures."},
	{Title: "Music", Slug: "music", Description: "New releases, old favourites, live shows."},
	{Title: "Science", Slug: "science", Description: "Findings, papers and wild hypotheses."},
	{Title: "Photography", Slug: "photography", Description: "Pictures and the stories behind them."},
	{Title: "Gaming", Slug: "gaming", Description: "Across every platform and genre."},
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	presets := opts.Groups
	if len(presets) == 0 {
		presets = groupPresets
	}
	groups, err := createOrGetGroups(db, presets)
	if err != nil {
		return fmt.Errorf("failed to create groups: %w", err)
	}
	log.Printf("%d groups available", len(groups))

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d test users created", len(users))

	posts, err := createPosts(db, users, groups, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	comments, err := createComments(db, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("%d comments created", comments)

	follows, err := createFollows(db, users)
	if err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}
	log.Printf("%d follows created", follows)

	log.Println("Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, follows, posts, groups, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createOrGetGroups(db *gorm.DB, presets []models.Group) ([]models.Group, error) {
	groups := make([]models.Group, 0, len(presets))
	for _, preset := range presets {
		var group models.Group
		err := db.Where(models.Group{Slug: preset.Slug}).
			Attrs(models.Group{Title: preset.Title, Description: preset.Description}).
			FirstOrCreate(&group).Error
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// Always include some specific users for consistency if cleaning
	if count >= 3 {
		baseUsers := []string{"leo", "anna", "test"}
		for _, u := range baseUsers {
			user := models.User{
				Username: u,
				Email:    fmt.Sprintf("%s@example.com", u),
				Password: string(hashedPassword),
			}
			if err := db.Create(&user).Error; err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		// Suffix keeps generated names unique across the batch.
		username := strings.ToLower(fmt.Sprintf("%s%d", gofakeit.Username(), i))

		user := models.User{
			Username: username,
			Email:    fmt.Sprintf("%s@example.com", username),
			Password: string(hashedPassword),
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("Failed to create user %s: %v", username, err)
			continue
		}
		users = append(users, user)

		if i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createPosts(db *gorm.DB, users []models.User, groups []models.Group, count int) ([]models.Post, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	posts := make([]models.Post, 0, count)
	if len(users) == 0 {
		return posts, nil
	}

	for i := 0; i < count; i++ {
		user := users[r.Intn(len(users))]

		var groupID *uint
		if len(groups) > 0 && r.Float32() < 0.6 {
			id := groups[r.Intn(len(groups))].ID
			groupID = &id
		}

		// Spread timestamps over the past 90 days so feeds look lived-in.
		createdAt := time.Now().
			Add(-time.Duration(r.Intn(90*24)) * time.Hour).
			Add(-time.Duration(r.Intn(60)) * time.Minute)

		post := models.Post{
			Text:      gofakeit.Paragraph(1, r.Intn(5)+1, r.Intn(10)+3, "\n"),
			AuthorID:  user.ID,
			GroupID:   groupID,
			CreatedAt: createdAt,
		}
		if err := db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)

		if i%100 == 0 {
			log.Printf("Created %d posts...", i)
		}
	}

	return posts, nil
}

func createComments(db *gorm.DB, users []models.User, posts []models.Post) (int, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	created := 0
	if len(users) == 0 {
		return 0, nil
	}

	for _, post := range posts {
		for n := r.Intn(4); n > 0; n-- {
			comment := models.Comment{
				PostID:   post.ID,
				AuthorID: users[r.Intn(len(users))].ID,
				Text:     gofakeit.Sentence(r.Intn(12) + 3),
			}
			if err := db.Create(&comment).Error; err != nil {
				return created, err
			}
			created++
		}
	}

	return created, nil
}

func createFollows(db *gorm.DB, users []models.User) (int, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	created := 0

	for _, user := range users {
		for n := r.Intn(6); n > 0; n-- {
			author := users[r.Intn(len(users))]
			if author.ID == user.ID {
				continue
			}
			follow := models.Follow{UserID: user.ID, AuthorID: author.ID}
			res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow)
			if res.Error != nil {
				return created, res.Error
			}
			created += int(res.RowsAffected)
		}
	}

	return created, nil
}
