package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"startupconnect/pkg/apperr"
	sendemail "startupconnect/pkg/sendemail"
)

const (
	codeLength = 6
	codeTTL    = 10 * time.Minute
	maxPerHour = 3
	rateWindow = time.Hour
)

var (
	ErrOTPNotFound     = apperr.New(apperr.NotFound, "OTP_NOT_FOUND", "no OTP found for this email or OTP already verified")
	ErrOTPExpired      = apperr.New(apperr.Unauthorized, "OTP_EXPIRED", "OTP has expired")
	ErrOTPInvalid      = apperr.New(apperr.Unauthorized, "OTP_INVALID", "invalid OTP code")
	ErrTooManyRequests = apperr.New(apperr.RateLimited, "OTP_RATE_LIMITED", "too many OTP requests, please try again later")
)

// Verifier stamps the user's verified_at once an OTP is confirmed.
type Verifier interface {
	MarkVerified(ctx context.Context, email string) error
}

type OTPService interface {
	GenerateAndSendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
}

type otpService struct {
	repo  OTPRepository
	users Verifier
	es    sendemail.EmailService
	now   func() time.Time
}

func NewOTPService(repo OTPRepository, users Verifier, es sendemail.EmailService) OTPService {
	return &otpService{repo: repo, users: users, es: es, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *otpService) GenerateAndSendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	now := s.now()

	count, err := s.repo.CountOTPsSince(ctx, email, now.Add(-rateWindow))
	if err != nil {
		return fmt.Errorf("failed to check OTP count: %w", err)
	}
	if count >= maxPerHour {
		return ErrTooManyRequests
	}

	code, err := generateOTP(codeLength)
	if err != nil {
		return err
	}

	if _, err := s.repo.CreateOTP(ctx, email, code, now.Add(codeTTL)); err != nil {
		return fmt.Errorf("failed to create OTP: %w", err)
	}

	if err := s.sendOTPEmail(email, code); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}

	if err := s.repo.DeleteExpiredOTPs(ctx); err != nil {
		log.Printf("[otp] cleanup failed: %v", err)
	}
	return nil
}

func (s *otpService) VerifyOTP(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	otp, err := s.repo.GetOTPByEmail(ctx, email)
	if err != nil {
		return err
	}

	if s.now().After(otp.ExpiresAt) {
		return ErrOTPExpired
	}
	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(strings.TrimSpace(code))) != 1 {
		return ErrOTPInvalid
	}

	if err := s.repo.MarkOTPAsVerified(ctx, otp.ID); err != nil {
		return fmt.Errorf("failed to mark OTP as verified: %w", err)
	}
	if err := s.users.MarkVerified(ctx, email); err != nil {
		return fmt.Errorf("failed to update user verification: %w", err)
	}
	return nil
}

func generateOTP(length int) (string, error) {
	const digits = "0123456789"
	base := big.NewInt(int64(len(digits)))
	otp := make([]byte, length)
	for i := range otp {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", fmt.Errorf("generate OTP: %w", err)
		}
		otp[i] = digits[n.Int64()]
	}
	return string(otp), nil
}

func (s *otpService) sendOTPEmail(toEmail, code string) error {
	subject := "Your StartupConnect verification code"
	plainTextContent := fmt.Sprintf("Your OTP code is: %s. This code will expire in 10 minutes.", code)
	htmlContent := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px;">
			<h2>Verify your email</h2>
			<p>Your one-time password is:</p>
			<div style="font-size: 24px; font-weight: bold; color: #333; padding: 10px; background-color: #f5f5f5; border-radius: 5px; display: inline-block;">
				%s
			</div>
			<p>This code will expire in 10 minutes.</p>
			<p>If you didn't request this code, please ignore this email.</p>
		</div>
	`, code)

	return s.es.SendEmail(subject, toEmail, plainTextContent, htmlContent)
}
