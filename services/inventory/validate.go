package inventory

import (
	"fmt"
	"strings"
	"time"

	"discts/models"
	"discts/utils"

	"github.com/araddon/dateparse"
)

func parseDate(field, value string) (time.Time, error) {
	t, err := dateparse.ParseAny(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, utils.NewAppError(utils.KindValidation, fmt.Sprintf("Invalid %s: %q", field, value), err)
	}
	return t, nil
}

// validateInput checks an add-product request: required fields, non-negative
// stock and price, parseable dates and manufacturing no later than expiry.
func validateInput(in models.ProductInput) error {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if in.Stock == nil {
		missing = append(missing, "stock")
	}
	if in.Price == nil {
		missing = append(missing, "price")
	}
	if strings.TrimSpace(in.BatchNumber) == "" {
		missing = append(missing, "batchNumber")
	}
	if strings.TrimSpace(in.ManufacturingDate) == "" {
		missing = append(missing, "manufacturingDate")
	}
	if strings.TrimSpace(in.ExpiryDate) == "" {
		missing = append(missing, "expiryDate")
	}
	if len(missing) > 0 {
		return utils.ValidationError("Missing required fields: " + strings.Join(missing, ", "))
	}

	if *in.Stock < 0 {
		return utils.ValidationError("Stock must be zero or greater")
	}
	if *in.Price < 0 {
		return utils.ValidationError("Price must be zero or greater")
	}

	mfg, err := parseDate("manufacturingDate", in.ManufacturingDate)
	if err != nil {
		return err
	}
	exp, err := parseDate("expiryDate", in.ExpiryDate)
	if err != nil {
		return err
	}
	if mfg.After(exp) {
		return utils.ValidationError("Manufacturing date cannot be after expiry date")
	}
	return nil
}

// validateUpdate rejects empty updates, negative quantities and
// unparseable dates. Date order is not re-checked.
func validateUpdate(upd models.ProductUpdate) error {
	if upd.IsEmpty() {
		return utils.ValidationError("At least one field is required")
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return utils.ValidationError("Name cannot be empty")
	}
	if upd.Stock != nil && *upd.Stock < 0 {
		return utils.ValidationError("Stock must be zero or greater")
	}
	if upd.Price != nil && *upd.Price < 0 {
		return utils.ValidationError("Price must be zero or greater")
	}
	if upd.ManufacturingDate != nil {
		if _, err := parseDate("manufacturingDate", *upd.ManufacturingDate); err != nil {
			return err
		}
	}
	if upd.ExpiryDate != nil {
		if _, err := parseDate("expiryDate", *upd.ExpiryDate); err != nil {
			return err
		}
	}
	return nil
}
