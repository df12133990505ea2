package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"hanmeotapp/languageutil"
	"hanmeotapp/models"
	"hanmeotapp/services"

	"github.com/labstack/echo/v4"
)

// Request structs for validation
type TryOnGenerateIn struct {
	UserImage   string                     `json:"user_image" validate:"required"`
	OutfitItems []models.GarmentDescriptor `json:"outfit_items" validate:"required,min=1"`
	Language    string                     `json:"language" validate:"omitempty,language"`
	OutfitID    string                     `json:"outfit_id" validate:"omitempty,max=100"`
}

type StyleEditIn struct {
	UserImage string `json:"user_image" validate:"required"`
	Command   string `json:"command" validate:"required,max=500"`
	Language  string `json:"language" validate:"omitempty,language"`
}

// Response structs
type TryOnCreatedResponse struct {
	TryOnID uint   `json:"try_on_id"`
	Status  string `json:"status"`
}

type TryOnStatusResponse struct {
	TryOnID        uint    `json:"try_on_id"`
	Status         string  `json:"status"`
	AttemptNumber  int     `json:"attempt_number"`
	ElapsedSeconds int     `json:"elapsed_seconds"`
	OutfitID       string  `json:"outfit_id,omitempty"`
	GeneratedImage *string `json:"generated_image,omitempty"`
	ProcessingTime float64 `json:"processing_time,omitempty"`
	ErrorKind      *string `json:"error_kind,omitempty"`
	ErrorMessage   *string `json:"error_message,omitempty"`
}

// sessionRetention is how long a finished session stays pollable before
// the registry lets go of it.
const sessionRetention = 5 * time.Minute

// SessionRegistry tracks in-flight try-on sessions by id. Sessions are
// in-process only; a server restart forgets them, like a page reload does.
// Finished sessions are evicted after a retention window so the map does
// not grow with every submission.
type SessionRegistry struct {
	mu        sync.Mutex
	nextID    uint
	sessions  map[uint]*services.TryOnSession
	RetainFor time.Duration
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: map[uint]*services.TryOnSession{}, RetainFor: sessionRetention}
}

func (r *SessionRegistry) Add(session *services.TryOnSession) uint {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.sessions[id] = session
	r.mu.Unlock()

	go r.evictWhenDone(id, session)
	return id
}

func (r *SessionRegistry) evictWhenDone(id uint, session *services.TryOnSession) {
	<-session.Done()
	time.Sleep(r.RetainFor)
	r.Remove(id)
}

func (r *SessionRegistry) Get(id uint) (*services.TryOnSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	return session, ok
}

func (r *SessionRegistry) Remove(id uint) (*services.TryOnSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	delete(r.sessions, id)
	return session, ok
}

type FittingController struct {
	Orchestrator *services.TryOnOrchestrator
	URLCache     services.URLCacheServiceProvider
	Sessions     *SessionRegistry
}

func (controller *FittingController) FittingRoutes(g *echo.Group) {
	g.POST("/tryon", controller.CreateTryOn)
	g.POST("/style-edit", controller.CreateStyleEdit)
	g.GET("/tryon/:tryOnId", controller.TryOnStatus)
	g.DELETE("/tryon/:tryOnId", controller.CancelTryOn)
}

func (controller *FittingController) CreateTryOn(c echo.Context) error {
	var req TryOnGenerateIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	photo, err := services.PhotoAssetFromDataURI(req.UserImage)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	garments := controller.resolveGarmentImages(c.Request().Context(), req.OutfitItems)
	language := requestLanguage(c, req.Language)

	session, err := controller.Orchestrator.Submit(context.Background(), photo, garments, language, req.OutfitID, services.TryOnCallbacks{})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	id := controller.Sessions.Add(session)
	fmt.Printf("[TryOn: %v] started with %v outfit items\n", id, len(garments))
	return c.JSON(http.StatusCreated, TryOnCreatedResponse{TryOnID: id, Status: "processing"})
}

func (controller *FittingController) CreateStyleEdit(c echo.Context) error {
	var req StyleEditIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	photo, err := services.PhotoAssetFromDataURI(req.UserImage)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	language := requestLanguage(c, req.Language)
	session, err := controller.Orchestrator.SubmitStyleEdit(context.Background(), photo, req.Command, language, services.TryOnCallbacks{})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	id := controller.Sessions.Add(session)
	fmt.Printf("[StyleEdit: %v] started\n", id)
	return c.JSON(http.StatusCreated, TryOnCreatedResponse{TryOnID: id, Status: "processing"})
}

// requestLanguage falls back to the Accept-Language header when the body
// carries no locale; the validator has already rejected bad explicit ones.
func requestLanguage(c echo.Context, bodyLanguage string) string {
	if bodyLanguage != "" {
		return bodyLanguage
	}
	return languageutil.ResolveLocale(c.Request().Header.Get("Accept-Language"))
}

func (controller *FittingController) TryOnStatus(c echo.Context) error {
	id, err := parseTryOnID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid try-on id"})
	}
	session, ok := controller.Sessions.Get(id)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Try-on not found"})
	}

	snap := session.Snapshot()
	resp := TryOnStatusResponse{
		TryOnID:        id,
		Status:         statusLabel(snap),
		AttemptNumber:  snap.Attempt.AttemptNumber,
		ElapsedSeconds: snap.Attempt.ElapsedSeconds,
	}
	if snap.Result != nil {
		resp.GeneratedImage = StrPointer(snap.Result.ImageURI)
		resp.ProcessingTime = snap.Result.ProcessingTime
		resp.OutfitID = snap.Result.OutfitID
	}
	if snap.Failure != nil {
		resp.ErrorKind = StrPointer(string(snap.Failure.Kind))
		resp.ErrorMessage = StrPointer(snap.Failure.Message)
	}
	return c.JSON(http.StatusOK, resp)
}

func (controller *FittingController) CancelTryOn(c echo.Context) error {
	id, err := parseTryOnID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid try-on id"})
	}
	session, ok := controller.Sessions.Remove(id)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Try-on not found"})
	}
	session.Teardown()
	fmt.Printf("[TryOn: %v] cancelled\n", id)
	return c.JSON(http.StatusOK, map[string]string{"message": "Try-on cancelled"})
}

// resolveGarmentImages swaps each item's image for its resolved (or
// placeholder) form before the outfit goes to the generation backend.
func (controller *FittingController) resolveGarmentImages(ctx context.Context, items []models.GarmentDescriptor) []models.GarmentDescriptor {
	resolved := make([]models.GarmentDescriptor, len(items))
	for i, item := range items {
		imageURL := services.ResolveGarmentImageURL(item)
		if controller.URLCache != nil && imageURL != "" {
			cached, err := controller.URLCache.GetImageURL(ctx, imageURL)
			if err == nil && cached != "" {
				imageURL = cached
			}
		}
		item.ImageReference = StrPointer(imageURL)
		resolved[i] = item
	}
	return resolved
}

func statusLabel(snap services.SessionSnapshot) string {
	switch {
	case snap.Result != nil:
		return "completed"
	case snap.Failure != nil:
		return "failed"
	default:
		return "processing"
	}
}

func parseTryOnID(c echo.Context) (uint, error) {
	raw := c.Param("tryOnId")
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}
