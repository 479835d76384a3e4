package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "startupconnect/docs"
	"startupconnect/pkg/admin"
	"startupconnect/pkg/auth"
	"startupconnect/pkg/config"
	"startupconnect/pkg/db"
	"startupconnect/pkg/messages"
	"startupconnect/pkg/negotiations"
	"startupconnect/pkg/notifications"
	"startupconnect/pkg/offers"
	"startupconnect/pkg/otp"
	"startupconnect/pkg/pitchdecks"
	"startupconnect/pkg/policy"
	"startupconnect/pkg/profiles"
	"startupconnect/pkg/sendemail"
	"startupconnect/pkg/transactions"
	"startupconnect/pkg/users"
)

// @title           StartupConnect API
// @version         1.0
// @description     Startups publish investment offers, investors negotiate and invest.

// @BasePath  /
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Server.Validate(); err != nil {
		log.Fatalf("TLS settings invalid: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	tokens, err := auth.NewTokenIssuer(cfg.Auth)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}
	requireAuth := auth.RequireAuth(tokens)
	rules := policy.FromConfig(cfg.Policy)
	emailService := sendemail.NewEmailService(cfg.Email)

	files, err := pitchdecks.NewDiskFileStore(cfg.Uploads.Dir)
	if err != nil {
		log.Fatalf("uploads: %v", err)
	}

	notificationsRepo := notifications.NewPostgresNotificationRepository(pool)
	notificationsService := notifications.NewNotificationService(notificationsRepo)
	notificationsHandler := notifications.NewNotificationHandler(notificationsService, requireAuth)

	accountDeleter := admin.NewAccountDeleter(admin.NewPostgresAccountRepository(pool), files)

	usersRepo := users.NewPostgresUserRepository(pool)
	usersService := users.NewUserService(usersRepo, tokens, accountDeleter)
	usersHandler := users.NewUserHandler(usersService, requireAuth)

	profilesRepo := profiles.NewPostgresProfileRepository(pool)
	profilesService := profiles.NewProfileService(profilesRepo)
	profilesHandler := profiles.NewProfileHandler(profilesService, requireAuth)

	offersRepo := offers.NewPostgresOfferRepository(pool)
	offersService := offers.NewOfferService(offersRepo, profilesService, usersService, notificationsService, rules)
	offersHandler := offers.NewOfferHandler(offersService, requireAuth)

	negotiationsRepo := negotiations.NewPostgresNegotiationRepository(pool)
	negotiationsService := negotiations.NewNegotiationService(negotiationsRepo, profilesService, notificationsService, rules)
	negotiationsHandler := negotiations.NewNegotiationHandler(negotiationsService, requireAuth)

	transactionsRepo := transactions.NewPostgresTransactionRepository(pool)
	transactionsService := transactions.NewTransactionService(transactionsRepo, profilesService)
	transactionsHandler := transactions.NewTransactionHandler(transactionsService, requireAuth)

	msgStore := messages.NewPostgresMessageStore(pool)
	messagesService := messages.NewMessageService(msgStore, usersService, notificationsService)
	messagesHandler := messages.NewHandler(messagesService, requireAuth)

	decksRepo := pitchdecks.NewPostgresPitchDeckRepository(pool)
	decksService := pitchdecks.NewPitchDeckService(decksRepo, files, profilesService, cfg.Uploads.MaxBytes)
	decksHandler := pitchdecks.NewPitchDeckHandler(decksService, requireAuth)

	otpRepo := otp.NewPostgresOTPRepository(pool)
	otpService := otp.NewOTPService(otpRepo, usersService, emailService)
	otpHandler := otp.NewOTPHandler(otpService)

	adminService := admin.NewAdminService(usersService, profilesService, transactionsService, accountDeleter)
	adminHandler := admin.NewAdminHandler(adminService, requireAuth)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	// multipart bodies above this are spooled to disk by net/http
	router.MaxMultipartMemory = 8 << 20

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	usersHandler.RegisterRoutes(router)
	otpHandler.RegisterRoutes(router)
	profilesHandler.RegisterRoutes(router)
	offersHandler.RegisterRoutes(router)
	negotiationsHandler.RegisterRoutes(router)
	transactionsHandler.RegisterRoutes(router)
	notificationsHandler.RegisterRoutes(router)
	messagesHandler.RegisterRoutes(router)
	decksHandler.RegisterRoutes(router)
	adminHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s (tls=%t)", cfg.Server.Port, cfg.Server.EnableTLS)
		if !cfg.Server.EnableTLS {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("listen (HTTP): %v", err)
			}
			return
		}

		tlsConfig, certFile, keyFile, err := buildTLSConfig(cfg.Server)
		if err != nil {
			log.Fatalf("TLS setup error: %v", err)
		}
		srv.TLSConfig = tlsConfig

		if certFile != "" && keyFile != "" {
			if err := srv.ListenAndServeTLS(certFile, keyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("listen (TLS files): %v", err)
			}
			return
		}
		if err := srv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen (TLS config): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

// buildTLSConfig prefers certificate files, then inline PEM (TLS_CERT/TLS_KEY),
// then a self-signed certificate outside production.
func buildTLSConfig(s config.ServerConfig) (*tls.Config, string, string, error) {
	var cert tls.Certificate
	var err error

	// Prefer explicit file paths
	if s.CertPath != "" && s.KeyPath != "" {
		cert, err = tls.LoadX509KeyPair(s.CertPath, s.KeyPath)
		if err != nil {
			return nil, "", "", err
		}
		return &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}, s.CertPath, s.KeyPath, nil
	}

	if s.CertPEM != "" && s.KeyPEM != "" {
		cert, err = tls.X509KeyPair([]byte(s.CertPEM), []byte(s.KeyPEM))
		if err != nil {
			return nil, "", "", err
		}
		return &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}, "", "", nil
	}

	// Development fallback: self-signed
	if s.Env != "production" && s.AllowSelfSigned {
		genCert, genErr := generateSelfSignedCert()
		if genErr != nil {
			return nil, "", "", genErr
		}
		return &tls.Config{Certificates: []tls.Certificate{genCert}, MinVersion: tls.VersionTLS12}, "", "", nil
	}

	return nil, "", "", fmt.Errorf("no TLS certificates available")
}

// generateSelfSignedCert creates a minimal self-signed certificate for localhost usage.
func generateSelfSignedCert() (tls.Certificate, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return tls.Certificate{}, err
	}

	serialNumberLimit := new(big.Int).Lsh(big.NewInt(1), 128)
	serialNumber, err := rand.Int(rand.Reader, serialNumberLimit)
	if err != nil {
		return tls.Certificate{}, err
	}

	tmpl := x509.Certificate{
		SerialNumber:          serialNumber,
		Subject:               pkix.Name{CommonName: "localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
		BasicConstraintsValid: true,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	if err != nil {
		return tls.Certificate{}, err
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})

	return tls.X509KeyPair(certPEM, keyPEM)
}
