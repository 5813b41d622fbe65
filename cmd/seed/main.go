package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"lostfound/internal/auth"
	"lostfound/internal/cache"
	"lostfound/internal/config"
	"lostfound/internal/db"
	apperrors "lostfound/internal/errors"
	"lostfound/internal/model"
	"lostfound/internal/repository"
	"lostfound/internal/service"
)

// SeedData is the fixture document read from SEED_SOURCE.
type SeedData struct {
	Users      []SeedUser  `json:"users"`
	LostItems  []SeedItem  `json:"lost_items"`
	FoundItems []SeedItem  `json:"found_items"`
	Stories    []SeedStory `json:"stories"`
}

// SeedUser is a user to register.
type SeedUser struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// SeedItem is a listing owned by one of the seeded users. Image is a stored
// image key, the file itself is not uploaded.
type SeedItem struct {
	Owner       string `json:"owner"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Image       string `json:"image"`
}

// SeedStory is a story posted by one of the seeded users.
type SeedStory struct {
	Author  string `json:"author"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type seedServices struct {
	auth    service.AuthService
	items   service.ItemService
	stories service.StoryService
}

type seedResult struct {
	created, existing, lost, found, stories int
}

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	log.Printf("Loading seed data from: %s", cfg.SeedSource)
	data, err := loadSeedData(cfg.SeedSource)
	if err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}
	log.Printf("Loaded %d users, %d lost items, %d found items, %d stories",
		len(data.Users), len(data.LostItems), len(data.FoundItems), len(data.Stories))

	repos := repository.New(gormDB)
	tx := repository.NewTransactor(gormDB)
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	svcs := seedServices{
		auth:    service.NewAuthService(repos.Users, auth.NewJWTService(cfg.JWTSecret), auth.NewTokenStore(cacheClient)),
		items:   service.NewItemService(tx, repos.Items, cacheClient),
		stories: service.NewStoryService(tx, repos.Stories),
	}

	log.Println("Seeding data into database...")
	res, err := seed(context.Background(), svcs, data)
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", res.created)
	log.Printf("  - Existing users reused: %d", res.existing)
	log.Printf("  - Lost items created: %d", res.lost)
	log.Printf("  - Found items created: %d", res.found)
	log.Printf("  - Stories created: %d", res.stories)
}

// loadSeedData reads the fixture from an http(s) URL or a local file.
func loadSeedData(source string) (*SeedData, error) {
	var body []byte
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := http.Get(source)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch seed data: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
		}
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
	} else {
		var err error
		body, err = os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
	}

	var data SeedData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &data, nil
}

// seed registers users (reusing ones that already exist) and then posts
// listings and stories on their behalf. Listings and stories are only seeded
// into empty feeds so running the script twice does not duplicate them.
func seed(ctx context.Context, svcs seedServices, data *SeedData) (seedResult, error) {
	var res seedResult
	ids := make(map[string]uint, len(data.Users))

	for _, u := range data.Users {
		user, err := svcs.auth.Register(ctx, u.Email, u.Phone, u.Password)
		switch {
		case err == nil:
			res.created++
		case errors.Is(err, apperrors.ErrEmailTaken):
			user, err = svcs.auth.Authenticate(ctx, u.Email, u.Password)
			if err != nil {
				return res, fmt.Errorf("existing user %s: %w", u.Email, err)
			}
			res.existing++
		default:
			return res, fmt.Errorf("register %s: %w", u.Email, err)
		}
		ids[model.NormalizeEmail(u.Email)] = user.ID
	}

	as := func(email string) (context.Context, error) {
		id, ok := ids[model.NormalizeEmail(email)]
		if !ok {
			return nil, fmt.Errorf("unknown seed user %q", email)
		}
		return auth.WithUserID(ctx, id), nil
	}

	if existing, err := svcs.items.ListLost(ctx); err != nil {
		return res, fmt.Errorf("list lost items: %w", err)
	} else if len(existing) == 0 {
		for _, it := range data.LostItems {
			userCtx, err := as(it.Owner)
			if err != nil {
				return res, err
			}
			if _, err := svcs.items.CreateLost(userCtx, service.LostItemInput{
				Title:       it.Title,
				Description: it.Description,
				Category:    it.Category,
				Location:    it.Location,
				ImageRef:    it.Image,
			}); err != nil {
				return res, fmt.Errorf("lost item %q: %w", it.Title, err)
			}
			res.lost++
		}
	} else {
		log.Printf("Lost items already present, skipping %d", len(data.LostItems))
	}

	if existing, err := svcs.items.ListFound(ctx); err != nil {
		return res, fmt.Errorf("list found items: %w", err)
	} else if len(existing) == 0 {
		for _, it := range data.FoundItems {
			userCtx, err := as(it.Owner)
			if err != nil {
				return res, err
			}
			if _, err := svcs.items.CreateFound(userCtx, service.FoundItemInput{
				Title:       it.Title,
				Description: it.Description,
				ImageRef:    it.Image,
			}); err != nil {
				return res, fmt.Errorf("found item %q: %w", it.Title, err)
			}
			res.found++
		}
	} else {
		log.Printf("Found items already present, skipping %d", len(data.FoundItems))
	}

	if existing, err := svcs.stories.List(ctx); err != nil {
		return res, fmt.Errorf("list stories: %w", err)
	} else if len(existing) == 0 {
		for _, st := range data.Stories {
			userCtx, err := as(st.Author)
			if err != nil {
				return res, err
			}
			if _, err := svcs.stories.Post(userCtx, st.Title, st.Content); err != nil {
				return res, fmt.Errorf("story %q: %w", st.Title, err)
			}
			res.stories++
		}
	} else {
		log.Printf("Stories already present, skipping %d", len(data.Stories))
	}

	return res, nil
}
