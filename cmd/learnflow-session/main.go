package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/foundarly/learnflow-junction/internal/guard"
	"github.com/foundarly/learnflow-junction/internal/models"
	"github.com/foundarly/learnflow-junction/internal/session"
	"github.com/foundarly/learnflow-junction/pkg/cache"
	"github.com/foundarly/learnflow-junction/pkg/config"
	"github.com/foundarly/learnflow-junction/pkg/logger"
)

const usage = `learnflow-session <command>

Commands:
  login -email <email> -password <password>   authenticate and persist the session
  register -name <name> -email <email> -password <password> -role <role>
  whoami                                      show the rehydrated identity
  can -dest <destination>                     evaluate the navigation guard
  logout                                      purge the stored session
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	store, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}

	var provider session.Provider
	if cfg.Session.APIBaseURL != "" {
		provider = session.NewAPIProvider(cfg.Session.APIBaseURL, cfg.Session.HTTPTimeout)
	} else {
		provider = session.NewStubProvider(0)
	}

	manager := session.NewManager(store, provider, logr)
	ctx := context.Background()
	snap := manager.Bootstrap(ctx)

	switch os.Args[1] {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		fs.Parse(os.Args[2:]) //nolint:errcheck

		identity, err := manager.Login(ctx, models.LoginRequest{Email: *email, Password: *password})
		if err != nil {
			log.Fatalf("login failed: %v", err)
		}
		printIdentity(identity)

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		name := fs.String("name", "", "full name")
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		role := fs.String("role", "student", "requested role")
		fs.Parse(os.Args[2:]) //nolint:errcheck

		parsed, err := models.ParseRole(*role)
		if err != nil {
			log.Fatalf("register failed: %v", err)
		}
		identity, err := manager.Register(ctx, models.RegisterRequest{Name: *name, Email: *email, Password: *password, Role: parsed})
		if err != nil {
			log.Fatalf("register failed: %v", err)
		}
		printIdentity(identity)

	case "whoami":
		if !snap.Authenticated {
			fmt.Println("not signed in")
			os.Exit(1)
		}
		printIdentity(snap.Identity)

	case "can":
		fs := flag.NewFlagSet("can", flag.ExitOnError)
		dest := fs.String("dest", "dashboard", "navigation destination")
		fs.Parse(os.Args[2:]) //nolint:errcheck

		policy := guard.DefaultPolicy()
		if err := policy.Validate(); err != nil {
			log.Fatalf("invalid policy: %v", err)
		}
		fmt.Println(policy.Evaluate(snap, *dest))

	case "logout":
		manager.Logout(ctx)
		fmt.Println("signed out")

	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func buildStore(cfg *config.Config) (session.KV, error) {
	switch cfg.Session.StoreBackend {
	case "redis":
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return session.NewRedisKV(client, cfg.Session.Profile), nil
	default:
		return session.NewFileKV(cfg.Session.StorePath), nil
	}
}

func printIdentity(identity *models.Identity) {
	out, err := json.MarshalIndent(identity, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode identity: %v", err)
	}
	fmt.Println(string(out))
}
