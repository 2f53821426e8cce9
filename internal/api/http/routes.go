package httpapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/wilson-cheng1110/Comp4436-GP/internal/device"
	"github.com/wilson-cheng1110/Comp4436-GP/internal/status"
)

var validate = validator.New()

// StatusProvider produces the aggregated status response.
type StatusProvider interface {
	Snapshot(ctx context.Context) status.Response
}

// DeviceController issues control commands to the embedded device.
type DeviceController interface {
	SetLED(ctx context.Context, state string) (device.Result, error)
	SetServo(ctx context.Context, angle int) (device.Result, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, statusSvc StatusProvider, dev DeviceController) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Type("html").SendString(indexPage)
	})

	app.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(statusSvc.Snapshot(c.Context()))
	})

	app.Post("/control/led/:state", func(c *fiber.Ctx) error {
		state := c.Params("state")

		res, err := dev.SetLED(c.Context(), state)
		if errors.Is(err, device.ErrInvalidLEDState) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status": "error", "message": "Invalid LED state",
			})
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if !res.OK {
			return c.Status(deviceErrorStatus(res)).JSON(fiber.Map{
				"status": "error", "message": "Failed to control LED: " + res.Message,
			})
		}
		return c.JSON(fiber.Map{
			"status": "success", "message": fmt.Sprintf("LED command '%s' sent.", state),
		})
	})

	app.Post("/control/servo", func(c *fiber.Ctx) error {
		angleStr := c.Query("angle")
		angle, convErr := strconv.Atoi(angleStr)

		q := servoQuery{Angle: angle}
		if angleStr == "" || convErr != nil || validate.Struct(q) != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status": "error", "message": "Invalid or missing angle parameter (0-180 required)",
			})
		}

		res, err := dev.SetServo(c.Context(), angle)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if !res.OK {
			return c.Status(deviceErrorStatus(res)).JSON(fiber.Map{
				"status": "error", "message": "Failed to control servo: " + res.Message,
			})
		}
		return c.JSON(fiber.Map{
			"status": "success", "message": fmt.Sprintf("Servo command sent (angle=%d).", angle),
		})
	})
}

// servoQuery holds the validated servo control parameter.
type servoQuery struct {
	Angle int `validate:"min=0,max=180"`
}

// deviceErrorStatus maps a failed device result onto a response code:
// the device's own HTTP status when one was received, 502 otherwise.
func deviceErrorStatus(res device.Result) int {
	if res.StatusCode != 0 {
		return res.StatusCode
	}
	return fiber.StatusBadGateway
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>Home Status</title></head>
<body>
<h1>Home Status</h1>
<p>See <a href="/status">/status</a> for the aggregated JSON view.</p>
</body>
</html>
`
