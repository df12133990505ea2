package controllers

import (
	"log"

	"github.com/labstack/echo/v4"
)

// HeaderDeviceID identifies an anonymous device. There are no accounts; the
// device id scopes every piece of stored user data.
const HeaderDeviceID = "X-Device-ID"

func DeviceMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		deviceID := c.Request().Header.Get(HeaderDeviceID)
		if deviceID == "" {
			log.Println("Request without device id rejected")
			return echo.ErrUnauthorized
		}
		c.Set("deviceID", deviceID)
		return next(c)
	}
}
