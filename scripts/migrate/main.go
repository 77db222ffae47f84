// Command migrate applies or rolls back the embedded index migrations.
package main

import (
	"flag"
	"log"

	"github.com/Govind-619/MintSphere/config"
	"github.com/Govind-619/MintSphere/migrations"
	"github.com/Govind-619/MintSphere/utils"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of applying")
	list := flag.Bool("list", false, "print the embedded migration versions and exit")
	flag.Parse()

	if *list {
		versions, err := migrations.Versions()
		if err != nil {
			log.Fatal(err)
		}
		for _, v := range versions {
			log.Printf("migration %06d", v)
		}
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}
	if err := utils.InitLogger(cfg.LogsDir, cfg.IsProduction()); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer utils.CloseLogger()

	// the indexed tables come from AutoMigrate
	if err := config.InitDB(cfg); err != nil {
		log.Fatal(err)
	}
	defer config.CloseDB()

	var version uint
	if *down > 0 {
		version, err = migrations.Down(cfg.MigrationURL(), *down)
	} else {
		version, err = migrations.Up(cfg.MigrationURL())
	}
	if err != nil {
		utils.LogError("Migration failed: %v", err)
		log.Fatal(err)
	}
	log.Printf("database at migration version %d", version)
}
