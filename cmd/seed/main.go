// Command seed creates the initial admin account. It is idempotent: when an
// admin with the given username already exists, nothing is written.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/campuscms/course-service/internal/config"
	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories/postgres"
	"github.com/campuscms/course-service/pkg"
)

func main() {
	username := flag.String("username", envOr("ADMIN_USERNAME", "admin"), "admin username")
	email := flag.String("email", envOr("ADMIN_EMAIL", "admin@example.com"), "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	flag.Parse()

	if *password == "" {
		log.Fatal("admin password is required (flag -password or ADMIN_PASSWORD)")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := repo.User().ExistsByUsername(ctx, *username)
	if err != nil {
		log.Fatalf("Failed to check for existing admin: %v", err)
	}
	if exists {
		log.Printf("Admin %q already exists, nothing to do", *username)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &models.User{
		Username:     *username,
		Email:        *email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := repo.User().Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Created admin %q (id=%d)", admin.Username, admin.ID)
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
