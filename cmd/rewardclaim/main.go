package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/HashibulAmin/reward-claim/internal/app"
	"github.com/HashibulAmin/reward-claim/internal/auth"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		if err := hashPassword(); err != nil {
			log.Fatalf("❌ hash-password: %v", err)
		}
		return
	}

	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ reward-claim failed to start: %v", err)
	}
}

// hashPassword reads a password from stdin and prints a bcrypt hash for admins.yaml.
func hashPassword() error {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return fmt.Errorf("empty password")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
