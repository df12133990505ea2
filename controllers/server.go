package controllers

import (
	"net/http"

	"hanmeotapp/models"
	"hanmeotapp/services"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		// Optionally, you could return the error to give each route more control over the status code
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func SetupServer(
	store services.KeyValueStore,
	orchestrator *services.TryOnOrchestrator,
	urlCache services.URLCacheServiceProvider,
) *echo.Echo {

	e := echo.New()
	v := validator.New()
	v.RegisterValidation("language", models.ValidateLanguage)
	e.Validator = &CustomValidator{validator: v}

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("__store", store)
			return next(c)
		}
	})

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, HeaderDeviceID},
	}))

	fittingController := FittingController{
		Orchestrator: orchestrator,
		URLCache:     urlCache,
		Sessions:     NewSessionRegistry(),
	}
	fittingGroup := e.Group("/fitting")
	fittingController.FittingRoutes(fittingGroup)

	userDataController := UserDataController{Store: store}
	userDataGroup := e.Group("/userdata", DeviceMiddleware)
	userDataController.UserDataRoutes(userDataGroup)

	return e
}
