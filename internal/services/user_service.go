package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/geo"
	"github.com/taskhub-dev/taskhub/internal/jobs"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/notify"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned by Authenticate for a bad email/password
// pair. It deliberately does not say which half was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

type RegisterUserAttrs struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	LastSignInIP string
}

// Collaborator dispatch seams. Tests replace these to verify invocation
// without exercising delivery.
var (
	enqueueWelcomeEmail = func(user models.User) {
		jobs.Enqueue(func(ctx context.Context) {
			if err := notify.SendWelcomeEmail(ctx, user); err != nil {
				log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
			}
		})
	}

	enqueueGeocode = func(userID uint, ip string) {
		jobs.Enqueue(func(ctx context.Context) {
			if err := geo.LocateUser(ctx, userID, ip); err != nil {
				log.Printf("Failed to geocode sign-in address for user %d: %v", userID, err)
			}
		})
	}
)

// RegisterUser validates and persists a new user, then dispatches the
// one-time welcome mail and, when a sign-in address is known, a geocode job.
// Neither side effect is awaited.
func RegisterUser(attrs RegisterUserAttrs) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(attrs.Email))

	fields := map[string][]string{}

	if strings.TrimSpace(attrs.FirstName) == "" {
		fields["first_name"] = append(fields["first_name"], "can't be blank")
	}

	if strings.TrimSpace(attrs.LastName) == "" {
		fields["last_name"] = append(fields["last_name"], "can't be blank")
	}

	if email == "" {
		fields["email"] = append(fields["email"], "can't be blank")
	}

	if attrs.Password == "" {
		fields["password"] = append(fields["password"], "can't be blank")
	}

	if email != "" {
		var existing models.User

		err := db.DB.Where("email = ?", email).First(&existing).Error

		if err == nil {
			fields["email"] = append(fields["email"], "has already been taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if len(fields) > 0 {
		return nil, ErrValidation(fields)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(attrs.Password), bcrypt.DefaultCost)

	if err != nil {
		return nil, err
	}

	user := models.User{
		FirstName:    strings.TrimSpace(attrs.FirstName),
		LastName:     strings.TrimSpace(attrs.LastName),
		Email:        email,
		PasswordHash: string(passwordHash),
		LastSignInIP: attrs.LastSignInIP,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	enqueueWelcomeEmail(user)

	if user.LastSignInIP != "" {
		enqueueGeocode(user.ID, user.LastSignInIP)
	}

	return &user, nil
}

// Authenticate resolves the email/password pair to a user, records the
// sign-in address and schedules its geocoding.
func Authenticate(email, password, signInIP string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User

	err := db.DB.Where("email = ?", email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if signInIP != "" && signInIP != user.LastSignInIP {
		if err := db.DB.Model(&user).Update("last_sign_in_ip", signInIP).Error; err != nil {
			log.Printf("Failed to record sign-in address for user %d: %v", user.ID, err)
		} else {
			enqueueGeocode(user.ID, signInIP)
		}
	}

	return &user, nil
}
