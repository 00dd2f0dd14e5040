package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

// Mints an HS256 token for local testing of the protected routes.
func main() {
	_ = godotenv.Load()

	sub := flag.String("sub", "", "user id to put in the sub claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" || *sub == "" {
		fmt.Fprintln(os.Stderr, "usage: JWT_SECRET=... go run ./scripts -sub <user-id> [-ttl 1h]")
		os.Exit(2)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": *sub,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(*ttl).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
