package main

import (
	"flag"
	"log"

	"go-factory-planner/internal/config"
	"go-factory-planner/internal/repository"
	"go-factory-planner/pkg/database"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", "admin@example.com", "operator email")
	newPassword := flag.String("password", "admin123", "new password")
	flag.Parse()

	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// 2. Setup Database
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect database: %v", err)
	}
	operators := repository.NewOperatorRepo(db)

	// 3. Find operator
	operator, err := operators.FindByEmail(*email)
	if err != nil {
		log.Fatalf("❌ Operator %s not found in database: %v", *email, err)
	}

	// 4. Hash new password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	// 5. Update
	if err := operators.UpdatePassword(operator.ID, string(hashedPassword)); err != nil {
		log.Fatalf("❌ Failed to update password in DB: %v", err)
	}

	log.Printf("✅ Success! Password for %s has been reset", *email)
}
