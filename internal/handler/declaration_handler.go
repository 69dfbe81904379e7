package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"retrouvaille/internal/domain"
	"retrouvaille/internal/middleware"
	"retrouvaille/internal/service/declaration"
	"retrouvaille/internal/service/search"
	"retrouvaille/internal/service/storage"
)

type DeclarationHandler struct {
	declService   declaration.Service
	searchService search.Service
	storageSvc    storage.Service
}

func NewDeclarationHandler(declService declaration.Service, searchService search.Service, storageSvc storage.Service) *DeclarationHandler {
	return &DeclarationHandler{
		declService:   declService,
		searchService: searchService,
		storageSvc:    storageSvc,
	}
}

func (h *DeclarationHandler) Create(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	var input domain.CreateDeclarationInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	decl, err := h.declService.Create(c.Context(), userID, input, nil)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(decl)
}

func (h *DeclarationHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("declarationId"))
	if err != nil {
		return middleware.BadRequest("Invalid declaration ID")
	}

	decl, err := h.declService.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(decl)
}

func (h *DeclarationHandler) Update(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	id, err := uuid.Parse(c.Params("declarationId"))
	if err != nil {
		return middleware.BadRequest("Invalid declaration ID")
	}

	var input domain.UpdateDeclarationInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	decl, err := h.declService.Update(c.Context(), id, userID, input)
	if err != nil {
		return err
	}

	return c.JSON(decl)
}

// UploadImages appends photos to a declaration. An upload that fails
// does not fail the request; it comes back as a warning.
func (h *DeclarationHandler) UploadImages(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	id, err := uuid.Parse(c.Params("declarationId"))
	if err != nil {
		return middleware.BadRequest("Invalid declaration ID")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return middleware.BadRequest("Invalid multipart form")
	}

	files := form.File["images"]
	if len(files) == 0 {
		return middleware.BadRequest("No images provided")
	}

	var images []domain.Image
	var warnings []string

	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", fileHeader.Filename, err))
			continue
		}

		img, err := h.storageSvc.Upload(c.Context(), userID, fileHeader.Filename, fileHeader.Size, fileHeader.Header.Get("Content-Type"), file)
		_ = file.Close()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: upload failed", fileHeader.Filename))
			continue
		}
		images = append(images, img)
	}

	if len(images) == 0 {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message":  "No image could be stored",
			"warnings": warnings,
		})
	}

	decl, err := h.declService.AddImages(c.Context(), id, userID, images)
	if err != nil {
		return err
	}

	resp := fiber.Map{"declaration": decl}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	return c.JSON(resp)
}

func (h *DeclarationHandler) SetActive(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	id, err := uuid.Parse(c.Params("declarationId"))
	if err != nil {
		return middleware.BadRequest("Invalid declaration ID")
	}

	var input struct {
		Active bool `json:"active"`
	}
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.declService.SetActive(c.Context(), id, userID, input.Active); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Declaration updated"})
}

func (h *DeclarationHandler) Delete(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("User not authenticated")
	}

	id, err := uuid.Parse(c.Params("declarationId"))
	if err != nil {
		return middleware.BadRequest("Invalid declaration ID")
	}

	if err := h.declService.Delete(c.Context(), id, user.ID, user.IsAdmin()); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Declaration deleted"})
}

func (h *DeclarationHandler) ListMine(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	params := getPaginationParams(c)

	result, err := h.declService.ListByOwner(c.Context(), userID, params)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (h *DeclarationHandler) Search(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	filters := domain.SearchFilters{
		Category:   c.Query("category"),
		Condition:  c.Query("condition"),
		Location:   c.Query("location"),
		SearchTerm: c.Query("q"),
	}

	switch c.Query("type") {
	case "loss":
		filters.Type = domain.TypeLoss
	case "found":
		filters.Type = domain.TypeFound
	case "", "all":
	default:
		return middleware.BadRequest("type must be loss, found or all")
	}

	if from := c.Query("date_from"); from != "" {
		t, err := parseDate(from)
		if err != nil {
			return middleware.BadRequest("Invalid date_from")
		}
		filters.DateFrom = &t
	}
	if to := c.Query("date_to"); to != "" {
		t, err := parseDate(to)
		if err != nil {
			return middleware.BadRequest("Invalid date_to")
		}
		filters.DateTo = &t
	}

	page, err := h.searchService.Search(c.Context(), userID, filters, c.QueryInt("page_size", 12), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}

	return c.JSON(page)
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
