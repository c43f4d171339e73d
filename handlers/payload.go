package handlers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"discts/models"
	"discts/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// bindLoose decodes a JSON object without fixing field types, so numeric
// fields may arrive as numbers or numeric strings.
func bindLoose(c *gin.Context) (map[string]interface{}, error) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, utils.NewAppError(utils.KindValidation, "Invalid request body", err)
	}
	return body, nil
}

// looseInt accepts a whole JSON number or a base-10 numeric string.
// Fractional values are rejected rather than truncated.
func looseInt(body map[string]interface{}, key string) (*int, error) {
	raw, ok := body[key]
	if !ok || raw == nil {
		return nil, nil
	}
	invalid := utils.ValidationError(fmt.Sprintf("%s must be an integer", key))

	if str, isString := raw.(string); isString {
		v, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return nil, invalid
		}
		return &v, nil
	}
	if _, isBool := raw.(bool); isBool {
		return nil, invalid
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return nil, invalid
	}
	v := int(f)
	return &v, nil
}

func looseFloat(body map[string]interface{}, key string) (*float64, error) {
	raw, ok := body[key]
	if !ok || raw == nil {
		return nil, nil
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return nil, utils.ValidationError(fmt.Sprintf("%s must be a number", key))
	}
	return &v, nil
}

func looseString(body map[string]interface{}, key string) (*string, error) {
	raw, ok := body[key]
	if !ok || raw == nil {
		return nil, nil
	}
	v, err := cast.ToStringE(raw)
	if err != nil {
		return nil, utils.ValidationError(fmt.Sprintf("%s must be a string", key))
	}
	return &v, nil
}

func productInputFrom(body map[string]interface{}) (models.ProductInput, error) {
	var in models.ProductInput
	var err error
	if in.Stock, err = looseInt(body, "stock"); err != nil {
		return in, err
	}
	if in.Price, err = looseFloat(body, "price"); err != nil {
		return in, err
	}
	for key, dst := range map[string]*string{
		"name":              &in.Name,
		"batchNumber":       &in.BatchNumber,
		"manufacturingDate": &in.ManufacturingDate,
		"expiryDate":        &in.ExpiryDate,
	} {
		s, err := looseString(body, key)
		if err != nil {
			return in, err
		}
		if s != nil {
			*dst = *s
		}
	}
	return in, nil
}

func productUpdateFrom(body map[string]interface{}) (models.ProductUpdate, error) {
	var upd models.ProductUpdate
	var err error
	if upd.Stock, err = looseInt(body, "stock"); err != nil {
		return upd, err
	}
	if upd.Price, err = looseFloat(body, "price"); err != nil {
		return upd, err
	}
	for key, dst := range map[string]**string{
		"name":              &upd.Name,
		"batchNumber":       &upd.BatchNumber,
		"manufacturingDate": &upd.ManufacturingDate,
		"expiryDate":        &upd.ExpiryDate,
	} {
		if *dst, err = looseString(body, key); err != nil {
			return upd, err
		}
	}
	return upd, nil
}
