// Command hash-generator produces bcrypt hashes for seeding test fixtures.
package main

import (
	"fmt"
	"os"

	"github.com/taskdeck/taskdeck-api/internal/service/auth"
)

func main() {
	passwords := os.Args[1:]
	if len(passwords) == 0 {
		passwords = []string{
			"testpass123",
			"task!@#$%^&*()",
			"this-is-a-very-long-passphrase-that-tests-edge-cases-for-bcrypt",
		}
	}

	hasher := auth.NewBcryptHasher(0)
	for _, password := range passwords {
		hash, err := hasher.Hash(password)
		if err != nil {
			fmt.Printf("Error generating hash for %s: %v\n", password, err)
			continue
		}
		fmt.Printf("Password: %s\nHash: %s\n\n", password, hash)
	}
}
