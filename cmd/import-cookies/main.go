// Command import-cookies registers (or refreshes) a scraping account from a
// session-cookie blob without going through the HTTP API.
//
// The blob may be passed with -cookies, through TWITTER_COOKIE_STRING, or in
// a file via -cookie-file; both the "name=value; ..." string form and the
// JSON object form are accepted.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/tickerpulse/ticker-tweets-api/internal/accounts"
	"github.com/tickerpulse/ticker-tweets-api/internal/storage"
)

func main() {
	username := flag.String("username", "", "account username (defaults to TWITTER_USERNAME)")
	cookieBlob := flag.String("cookies", "", "cookie blob (defaults to TWITTER_COOKIE_STRING)")
	cookieFile := flag.String("cookie-file", "", "file containing the cookie blob")
	dataDir := flag.String("data-dir", "", "account store directory (defaults to DATA_DIR or 'data')")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	if *username == "" {
		*username = os.Getenv("TWITTER_USERNAME")
	}
	if *username == "" {
		log.Fatal("Username is required (pass -username or set TWITTER_USERNAME)")
	}

	blob := *cookieBlob
	if blob == "" && *cookieFile != "" {
		data, err := os.ReadFile(*cookieFile)
		if err != nil {
			log.Fatalf("Failed to read cookie file: %v", err)
		}
		blob = strings.TrimSpace(string(data))
	}
	if blob == "" {
		blob = os.Getenv("TWITTER_COOKIE_STRING")
	}
	if blob == "" {
		log.Fatal("Cookie blob is required (pass -cookies, -cookie-file or set TWITTER_COOKIE_STRING)")
	}

	cookies, err := accounts.ParseCookies(blob)
	if err != nil {
		log.Fatalf("Failed to parse cookies: %v", err)
	}

	dir := *dataDir
	if dir == "" {
		dir = os.Getenv("DATA_DIR")
	}
	if dir == "" {
		dir = "data"
	}

	backend, err := storage.NewLocalStorage(dir)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	store := accounts.NewStore(backend)
	if err := store.Upsert(accounts.Account{
		Username: *username,
		Credentials: accounts.Credentials{
			Cookies: cookies,
		},
		State:        accounts.StateUnverified,
		RegisteredAt: time.Now(),
	}); err != nil {
		log.Fatalf("Failed to store account: %v", err)
	}

	fmt.Printf("Cookies imported for account %s (%d cookie(s))\n", *username, len(cookies))
}
