package api

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"vitaltrack/fitness-app/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var registerValidators sync.Once

// RegisterValidators adds the custom binding rules to gin's validator.
func RegisterValidators() {
	registerValidators.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			switch name {
			case "-":
				return ""
			case "":
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("password", validatePassword)
	})
}

// validatePassword requires at least 8 characters with an uppercase letter
// and a digit.
func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}
	var upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && digit
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// bindJSON decodes and validates the body. On failure it records a 400 and
// returns false.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, validationError(err))
		return false
	}
	return true
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]fieldError, len(verrs))
		for i, fe := range verrs {
			details[i] = fieldError{Field: fe.Field(), Rule: fe.Tag()}
		}
		return apperror.Validation("Validation failed", details)
	}
	return apperror.Validation("Invalid request body", nil)
}

// parseObjectIDParam reads a path id. Malformed ids are reported as
// notFound, the same as missing records.
func parseObjectIDParam(c *gin.Context, name string, notFound error) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, notFound)
		return primitive.NilObjectID, false
	}
	return id, true
}

// optionalObjectID converts an already validated hex id.
func optionalObjectID(hex *string) *primitive.ObjectID {
	if hex == nil || *hex == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(*hex)
	if err != nil {
		return nil
	}
	return &id
}

// parseDateQuery accepts YYYY-MM-DD or RFC 3339. A bare date is a calendar
// day in the server's zone, the same zone the summaries bucket by.
func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, apperror.Validation("Invalid date in query parameter "+name, nil)
}
