package response

import (
	"github.com/gofiber/fiber/v2"
)

type ResponseOKWithDataModel struct {
	Code         int         `json:"code"`
	Success      bool        `json:"success"`
	Data         interface{} `json:"data"`
	ErrorMessage string      `json:"errorMessage"`
}

type ResponseOKModel struct {
	Code         int    `json:"code"`
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	ErrorMessage string `json:"errorMessage"`
}

type ResponseErrorModel struct {
	Code         int         `json:"code"`
	Success      bool        `json:"success"`
	Error        interface{} `json:"error"`
	ErrorMessage interface{} `json:"errorMessage"`
}

func ResponseOKWithData(c *fiber.Ctx, data interface{}) error {
	response := ResponseOKWithDataModel{
		Code:         200,
		Success:      true,
		Data:         data,
		ErrorMessage: "",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

func ResponseOK(c *fiber.Ctx, message string) error {
	response := ResponseOKModel{
		Code:         200,
		Success:      true,
		Message:      message,
		ErrorMessage: "",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

func ResponseCreated(c *fiber.Ctx, data interface{}) error {
	response := ResponseOKWithDataModel{
		Code:         201,
		Success:      true,
		Data:         data,
		ErrorMessage: "",
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func ResponseError(c *fiber.Ctx, err interface{}, code int) error {
	response := ResponseErrorModel{
		Code:         code,
		Success:      false,
		Error:        err,
		ErrorMessage: err,
	}

	return c.Status(code).JSON(response)
}
