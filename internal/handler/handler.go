package handler

import (
	"errors"
	"fmt"
	"strings"

	"series_guide/api/middleware"
	"series_guide/internal/service"
	"series_guide/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// parseBody decodes the json body into dst and runs its validate tags.
// The returned message is ready to be sent to the client.
func parseBody(c *fiber.Ctx, dst interface{}) (string, bool) {
	if err := c.BodyParser(dst); err != nil {
		return response.BadRequestBody, false
	}
	if err := validate.Struct(dst); err != nil {
		return validationMessage(err), false
	}
	return "", true
}

func validationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return response.BadRequestBody
	}
	problems := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		problems = append(problems, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return response.BadRequestBody + ": " + strings.Join(problems, ", ")
}

// sendError maps a service error kind to its status code.
func sendError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		code = fiber.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		code = fiber.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		code = fiber.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		code = fiber.StatusConflict
	}
	if code == fiber.StatusInternalServerError {
		return response.ResponseError(c, response.ServerError, code)
	}

	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		return response.ResponseError(c, svcErr.Message, code)
	}
	return response.ResponseError(c, err.Error(), code)
}

//------------------------------------------
//------------------------------------------

// currentUserId reads the public session attached by the auth middlewares.
func currentUserId(c *fiber.Ctx) (primitive.ObjectID, bool) {
	claims := middleware.GetUserClaims(c)
	if claims == nil {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.Id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func optionalUserId(c *fiber.Ctx) *primitive.ObjectID {
	if id, ok := currentUserId(c); ok {
		return &id
	}
	return nil
}

func currentAdminId(c *fiber.Ctx) (primitive.ObjectID, bool) {
	claims := middleware.GetAdminClaims(c)
	if claims == nil {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserId)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func paramObjectId(c *fiber.Ctx, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Params(name, ""))
	return id, err == nil
}

func pageQuery(c *fiber.Ctx) (int64, int64) {
	return int64(c.QueryInt("page", 1)), int64(c.QueryInt("limit", 0))
}
