package service

import (
	"errors"

	"habitlog-service/internal/domain/apperr"
	"habitlog-service/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type signupInput struct {
	Username string `validate:"required,max=64"`
	Email    string `validate:"required,max=255,email"`
	Password string `validate:"min=8,max=128"`
}

type locationInput struct {
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
}

var fieldMessages = map[string]string{
	"Username":  "username is required and at most 64 characters",
	"Email":     "email is invalid",
	"Password":  "password must be between 8 and 128 characters",
	"Latitude":  "latitude must be within [-90, 90] and longitude within [-180, 180]",
	"Longitude": "latitude must be within [-90, 90] and longitude within [-180, 180]",
}

// checkInput validates v and reports the first failing field as InvalidArgument
func checkInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if msg, ok := fieldMessages[fieldErrs[0].Field()]; ok {
			return apperr.New(apperr.KindInvalidArgument, msg)
		}
	}
	return apperr.Wrap(apperr.KindInvalidArgument, "invalid input", err)
}

func checkLocation(point entity.GeoPoint) error {
	return checkInput(locationInput{Latitude: point.Latitude, Longitude: point.Longitude})
}
