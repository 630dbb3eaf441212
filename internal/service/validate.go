package service

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/crucial707/hci-assetdb/internal/models"
)

var validate = validator.New()

// ValidationResult lists every violated rule; a record is written only when
// Valid is true.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// assetRules are the shape rules checked by the validator; the cross-field
// date rules are checked by hand below.
type assetRules struct {
	Name          string   `validate:"required"`
	AssetTag      string   `validate:"required"`
	Category      string   `validate:"required"`
	PurchasePrice *float64 `validate:"omitempty,gte=0"`
}

var assetRuleMessages = map[string]string{
	"Name":          "name is required",
	"AssetTag":      "assetTag is required",
	"Category":      "category is required",
	"PurchasePrice": "purchasePrice must be zero or greater",
}

// ValidateAsset checks an asset without touching the store. Only the
// "date in the future" rule reads the wall clock.
func ValidateAsset(a models.Asset) ValidationResult {
	errs := runRules(assetRules{
		Name:          a.Name,
		AssetTag:      a.AssetTag,
		Category:      a.Category,
		PurchasePrice: a.PurchasePrice,
	}, assetRuleMessages)

	now := time.Now().UTC()
	if a.PurchaseDate != nil && a.PurchaseDate.After(now) {
		errs = append(errs, "purchaseDate must not be in the future")
	}
	if a.WarrantyExpiry != nil && a.PurchaseDate != nil && a.WarrantyExpiry.Before(*a.PurchaseDate) {
		errs = append(errs, "warrantyExpiry must not precede purchaseDate")
	}
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

type userRules struct {
	Username  string `validate:"required"`
	Email     string `validate:"required,email"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
}

var userRuleMessages = map[string]string{
	"Username":  "username is required",
	"Email":     "email must be a valid address",
	"FirstName": "firstName is required",
	"LastName":  "lastName is required",
}

func validateUser(u models.User) ValidationResult {
	errs := runRules(userRules{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}, userRuleMessages)
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

type maintenanceRules struct {
	AssetID         int    `validate:"required,gt=0"`
	MaintenanceType string `validate:"required"`
	Description     string `validate:"required"`
}

var maintenanceRuleMessages = map[string]string{
	"AssetID":         "assetId is required",
	"MaintenanceType": "maintenanceType is required",
	"Description":     "description is required",
}

func validateMaintenance(m models.MaintenanceRecord) ValidationResult {
	errs := runRules(maintenanceRules{
		AssetID:         m.AssetID,
		MaintenanceType: m.MaintenanceType,
		Description:     m.Description,
	}, maintenanceRuleMessages)
	if m.MaintenanceDate.IsZero() {
		errs = append(errs, "maintenanceDate is required")
	}
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

type categoryRules struct {
	Name string `validate:"required"`
}

var categoryRuleMessages = map[string]string{
	"Name": "name is required",
}

func validateCategory(c models.Category) ValidationResult {
	errs := runRules(categoryRules{Name: c.Name}, categoryRuleMessages)
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// runRules flattens validator field errors into the human-readable messages
// this service reports to callers.
func runRules(rules any, messages map[string]string) []string {
	err := validate.Struct(rules)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	var errs []string
	for _, fe := range fieldErrs {
		if msg, ok := messages[fe.Field()]; ok {
			errs = append(errs, msg)
			continue
		}
		errs = append(errs, fmt.Sprintf("%s is invalid", fe.Field()))
	}
	return errs
}
