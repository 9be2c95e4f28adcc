package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/lelani/transport-backend/internal/config"
	"github.com/lelani/transport-backend/internal/database"
	"github.com/lelani/transport-backend/internal/logger"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/repository"
	"github.com/lelani/transport-backend/internal/service"
	"github.com/lelani/transport-backend/internal/validator"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "")

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	driverRepo := repository.NewDriverRepository(pool)
	authService := service.NewAuthService(cfg, nil, driverRepo, log)
	driverService := service.NewDriverService(driverRepo, authService, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Administrator ===")

	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		fmt.Println("Error: Name is required")
		return
	}

	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		fmt.Println("Error: A valid email is required")
		return
	}

	fmt.Printf("Enter Phone (+%s...): ", cfg.PhoneCountryCode)
	phone, _ := reader.ReadString('\n')
	phone = strings.TrimSpace(phone)
	if !validator.PhonePattern(cfg.PhoneCountryCode).MatchString(phone) {
		fmt.Printf("Error: Phone must look like +%s712345678\n", cfg.PhoneCountryCode)
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	admin, err := driverService.Create(ctx, &model.DriverRequest{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Role:     model.RoleAdmin,
		Status:   model.StaffStatusActive,
		Password: password,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			fmt.Printf("Error: %s is already registered\n", email)
			return
		}
		log.Fatal().Err(err).Msg("Failed to create administrator")
	}

	fmt.Printf("\nSuccess! Administrator '%s' (%s) created with ID: %s\n", admin.Name, admin.Email, admin.ID)
}
