// Command seed creates the admin and test accounts and a sample NFT catalogue.
package main

import (
	"log"
	"os"

	"github.com/Govind-619/MintSphere/config"
	"github.com/Govind-619/MintSphere/models"
	"github.com/Govind-619/MintSphere/utils"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}
	if err := utils.InitLogger(cfg.LogsDir, cfg.IsProduction()); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer utils.CloseLogger()

	if err := config.InitDB(cfg); err != nil {
		log.Fatal(err)
	}
	defer config.CloseDB()

	accounts := []Account{
		{Email: getenv("ADMIN_EMAIL", "admin@mintsphere.io"), Password: getenv("ADMIN_PASSWORD", "admin123"), Role: models.RoleAdmin},
		{Email: getenv("TEST_USER_EMAIL", "test@example.com"), Password: getenv("TEST_USER_PASSWORD", "password123"), Role: models.RoleUser},
	}
	for _, acct := range accounts {
		created, err := EnsureAccount(config.DB, acct)
		if err != nil {
			utils.LogError("Seeding account failed: %v", err)
			log.Fatal(err)
		}
		if created {
			utils.LogInfo("Seeded %s account %s", acct.Role, acct.Email)
		} else {
			log.Printf("account %s already exists", acct.Email)
		}
	}

	n, err := EnsureNFTs(config.DB, SampleNFTs())
	if err != nil {
		utils.LogError("Seeding NFTs failed: %v", err)
		log.Fatal(err)
	}
	log.Printf("seeded %d NFTs", n)
}
