package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"hanmeotapp/models"
	"hanmeotapp/services"

	"github.com/labstack/echo/v4"
)

type WishlistToggleResponse struct {
	OutfitID   string `json:"outfit_id"`
	Wishlisted bool   `json:"wishlisted"`
}

type WishlistResponse struct {
	OutfitIDs []string `json:"outfit_ids"`
}

type GenderResponse struct {
	Gender *string `json:"gender"`
}

type UserDataController struct {
	Store services.KeyValueStore
}

func (controller *UserDataController) UserDataRoutes(g *echo.Group) {
	g.POST("/wishlist/toggle", controller.ToggleWishlist)
	g.GET("/wishlist", controller.ListWishlist)
	g.POST("/gender", controller.SetGender)
	g.GET("/gender", controller.GetGender)
	g.PUT("/preferences", controller.SetPreferences)
	g.GET("/preferences", controller.GetPreferences)
}

func (controller *UserDataController) actions() *services.ResultActions {
	return services.NewResultActions(controller.Store)
}

func (controller *UserDataController) ToggleWishlist(c echo.Context) error {
	var req models.WishlistToggleIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	deviceID := c.Get("deviceID").(string)
	wishlisted, err := controller.actions().ToggleWishlist(deviceID, req.OutfitID)
	if err != nil {
		fmt.Printf("[Wishlist: %v] toggle failed: %v\n", deviceID, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not update wishlist"})
	}
	return c.JSON(http.StatusOK, WishlistToggleResponse{OutfitID: req.OutfitID, Wishlisted: wishlisted})
}

func (controller *UserDataController) ListWishlist(c echo.Context) error {
	deviceID := c.Get("deviceID").(string)
	ids, err := controller.actions().Wishlist(deviceID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not read wishlist"})
	}
	return c.JSON(http.StatusOK, WishlistResponse{OutfitIDs: ids})
}

func (controller *UserDataController) SetGender(c echo.Context) error {
	var req models.GenderIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	deviceID := c.Get("deviceID").(string)
	if err := controller.Store.Set(deviceID, models.GenderKey, req.Gender); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not save gender"})
	}
	return c.JSON(http.StatusOK, GenderResponse{Gender: StrPointer(req.Gender)})
}

func (controller *UserDataController) GetGender(c echo.Context) error {
	deviceID := c.Get("deviceID").(string)
	value, ok, err := controller.Store.Get(deviceID, models.GenderKey)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not read gender"})
	}
	if !ok {
		return c.JSON(http.StatusOK, GenderResponse{Gender: nil})
	}
	return c.JSON(http.StatusOK, GenderResponse{Gender: StrPointer(value)})
}

func (controller *UserDataController) SetPreferences(c echo.Context) error {
	var req models.StylePreferences
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	encoded, err := json.Marshal(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid preferences"})
	}
	deviceID := c.Get("deviceID").(string)
	if err := controller.Store.Set(deviceID, models.PreferencesKey, string(encoded)); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not save preferences"})
	}
	return c.JSON(http.StatusOK, req)
}

func (controller *UserDataController) GetPreferences(c echo.Context) error {
	deviceID := c.Get("deviceID").(string)
	raw, ok, err := controller.Store.Get(deviceID, models.PreferencesKey)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not read preferences"})
	}

	prefs := models.StylePreferences{Styles: []string{}, Occasions: []string{}, Colors: []string{}}
	if ok {
		if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
			fmt.Printf("[Preferences: %v] resetting corrupt value: %v\n", deviceID, err)
		}
	}
	return c.JSON(http.StatusOK, prefs)
}
