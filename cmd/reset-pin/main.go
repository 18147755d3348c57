package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/repository"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/store"

	"github.com/joho/godotenv"
)

// Offline recovery tool: resets a staff member's PIN directly in the
// local store, for when nobody with a manager account can log in.
func main() {
	name := flag.String("name", "Gérant", "staff member name")
	pin := flag.String("pin", "0000", "new PIN")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Open local store
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	st, err := store.Open(dataDir)
	if err != nil {
		log.Fatalf("Failed to open data store: %v", err)
	}

	// 3. Find the member
	staffRepo := repository.NewStaffRepo(st)
	member, err := staffRepo.FindByName(*name)
	if err != nil {
		log.Fatalf("Staff member %q not found: %v", *name, err)
	}

	// 4. Hash and update
	if err := member.SetPIN(*pin); err != nil {
		log.Fatalf("Failed to hash PIN: %v", err)
	}
	member.IsActive = true
	member.UpdatedAt = time.Now()
	if err := staffRepo.Update(member); err != nil {
		log.Fatalf("Failed to update staff member: %v", err)
	}

	log.Printf("Success! PIN for %s has been reset to: %s", member.Name, *pin)
}
