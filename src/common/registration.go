package common

import (
	"errors"
	"fmt"
	"log"

	"pgme/src/config"
	"pgme/src/db"
	"pgme/src/lib"
	"pgme/src/models"
	"pgme/src/types"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func emailOrPhoneTaken(model any, email, phone string) (bool, error) {
	err := db.GetDb().
		Model(model).
		Where("email = ? OR phone = ?", email, phone).
		First(model).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func sendWelcomeEmail(cfg *config.Config, to, name string) {
	body := fmt.Sprintf("Hi %s,\n\nYour account has been created. You can now sign in and start using the platform.\n\nThanks,\n%s", name, cfg.MailFromName)
	err := lib.SendMail(&lib.SendMailInput{
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
		To:       []string{to},
		Subject:  "Welcome aboard",
		Body:     body,
	})
	if err != nil {
		log.Printf("Could not send welcome email to %s: %s\n", to, err.Error())
	}
}

func RegisterSeeker(cfg *config.Config, body *types.RegisterSeekerRequestBody) (*models.Seeker, error) {
	taken, err := emailOrPhoneTaken(&models.Seeker{}, body.Email, body.Phone)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, types.NewValidationError("an account with this email or phone already exists")
	}
	hashed, err := hashPassword(body.Password)
	if err != nil {
		return nil, err
	}
	seeker := models.Seeker{
		FullName:               body.FullName,
		Email:                  body.Email,
		Password:               hashed,
		Phone:                  body.Phone,
		Role:                   types.ROLE_SEEKER,
		DateOfBirth:            body.DateOfBirth,
		Gender:                 body.Gender,
		CurrentCity:            body.CurrentCity,
		GovtIDType:             body.GovtIDType,
		GovtIDNumber:           body.GovtIDNumber,
		EmergencyContactName:   body.EmergencyContactName,
		EmergencyContactNumber: body.EmergencyContactNumber,
		PreferredLocation:      body.PreferredLocation,
		OccupationType:         body.OccupationType,
		CollegeName:            body.CollegeName,
		CompanyName:            body.CompanyName,
	}
	if err := db.GetDb().Create(&seeker).Error; err != nil {
		return nil, err
	}
	go sendWelcomeEmail(cfg, seeker.Email, seeker.FullName)
	return &seeker, nil
}

func RegisterProvider(cfg *config.Config, body *types.RegisterProviderRequestBody) (*models.Provider, error) {
	taken, err := emailOrPhoneTaken(&models.Provider{}, body.Email, body.Phone)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, types.NewValidationError("an account with this email or phone already exists")
	}
	hashed, err := hashPassword(body.Password)
	if err != nil {
		return nil, err
	}
	provider := models.Provider{
		FullName:       body.FullName,
		Email:          body.Email,
		Password:       hashed,
		Phone:          body.Phone,
		Role:           types.ROLE_PROVIDER,
		DateOfBirth:    body.DateOfBirth,
		Gender:         body.Gender,
		CurrentCity:    body.CurrentCity,
		GovtIDType:     body.GovtIDType,
		GovtIDNumber:   body.GovtIDNumber,
		CurrentAddress: body.CurrentAddress,
	}
	if err := db.GetDb().Create(&provider).Error; err != nil {
		return nil, err
	}
	go sendWelcomeEmail(cfg, provider.Email, provider.FullName)
	return &provider, nil
}
