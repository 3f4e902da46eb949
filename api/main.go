package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/julienschmidt/httprouter"

	. "github.com/jimiolaniyan/accounts"
)

type logEvents struct{}

func (logEvents) AccountCreated(id string, username string, role string) {
	log.Printf("account created: id=%s username=%s role=%s", id, username, role)
}

func (logEvents) AccountAuthenticated(id string, username string, ip string) {
	log.Printf("account authenticated: id=%s username=%s ip=%s", id, username, ip)
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoURL := getenv("ACCOUNTS_MONGO_URL", "mongodb://127.0.0.1:27017")
	signingKey := []byte(os.Getenv("ACCOUNTS_SIGNING_KEY"))
	port := getenv("ACCOUNTS_PORT", "8090")

	if len(signingKey) == 0 {
		log.Fatal("ACCOUNTS_SIGNING_KEY must be set")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		log.Fatal(err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		log.Fatal(err)
	}

	c := client.Database("accounts").Collection("accounts")
	if err = EnsureUsernameIndex(ctx, c); err != nil {
		log.Fatal(err)
	}

	issuer := NewJWTIssuer(signingKey, 24*time.Hour)
	svc := NewService(NewMongoAccountRepository(c), NewBcryptHasher(), issuer, logEvents{})

	router := httprouter.New()
	router.Handler(http.MethodPost, "/v1/accounts", CreateAccountHandler(svc))
	router.Handler(http.MethodPost, "/v1/accounts/authenticate", AuthenticateHandler(svc))
	router.Handler(http.MethodPost, "/v1/accounts/logout", RequireAuth(signingKey, LogoutHandler(svc)))
	router.Handler(http.MethodGet, "/v1/accounts", RequireAuth(signingKey, ListAccountsHandler(svc)))
	router.Handler(http.MethodGet, "/v1/accounts/:id", RequireAuth(signingKey, GetAccountHandler(svc)))
	router.Handler(http.MethodPut, "/v1/accounts/:id", RequireAuth(signingKey, UpdateAccountHandler(svc)))
	router.Handler(http.MethodDelete, "/v1/accounts/:id", RequireAuth(signingKey, DeleteAccountHandler(svc)))
	router.Handler(http.MethodGet, "/v1/audit", RequireAuth(signingKey, AuditHandler(svc)))

	log.Printf("Server started. Listening on port: %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
