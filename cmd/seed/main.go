package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/costschef/user-service/config"
	"github.com/costschef/user-service/pkg/helpers"
)

// Seeds one already-verified user for local development so login works
// without going through the OTP email flow.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@example.com"
	password := "password123"

	salt, err := helpers.NewSalt()
	if err != nil {
		log.Fatalf("failed to generate salt: %v", err)
	}
	hash := helpers.NewHasher(cfg.PasswordKey).Hash(password, salt)

	var id int
	err = db.QueryRow(`
		INSERT INTO users (first_name, last_name, email, gender, active)
		VALUES ($1, $2, $3, $4, true)
		ON CONFLICT (email) DO UPDATE SET active = true, updated_at = now()
		RETURNING id
	`, "Demo", "User", email, "other").Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	if _, err := db.Exec(`
		INSERT INTO auth (email, password_hash, password_salt)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    password_salt = EXCLUDED.password_salt,
		    otp = NULL, otp_expires_at = NULL
	`, email, hash, salt); err != nil {
		log.Fatalf("failed to seed credentials: %v", err)
	}

	fmt.Printf("seeded user: id=%d email=%s password=%s\n", id, email, password)
}
