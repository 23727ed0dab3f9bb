package handlers

import (
	"github.com/skillup-app/skillup_backend/models"
	"github.com/skillup-app/skillup_backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResourceHandler struct {
	db *gorm.DB
}

func NewResourceHandler(db *gorm.DB) *ResourceHandler {
	return &ResourceHandler{db: db}
}

func (h *ResourceHandler) GetAllResources(c *fiber.Ctx) error {
	query := h.db.Model(&models.Resource{})
	if t := c.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	var resources []models.Resource
	if err := query.Order("created_at desc").Find(&resources).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to fetch resources")
	}
	return utils.SendResponse(c, fiber.StatusOK, true, resources, "Resources fetched successfully")
}

func (h *ResourceHandler) GetResourceByID(c *fiber.Ctx) error {
	resourceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid resource id")
	}

	var resource models.Resource
	if err := h.db.First(&resource, "id = ?", resourceID).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Resource not found")
	}
	return utils.SendResponse(c, fiber.StatusOK, true, resource, "Resource fetched successfully")
}

type CreateResourceRequest struct {
	Title        string  `json:"title" validate:"required"`
	Description  string  `json:"description"`
	Type         string  `json:"type" validate:"required"`
	Category     string  `json:"category"`
	FileURL      string  `json:"file_url" validate:"required,url"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

func (h *ResourceHandler) CreateResource(c *fiber.Ctx) error {
	var req CreateResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, err.Error())
	}

	resource := models.Resource{
		Title:        req.Title,
		Description:  req.Description,
		Type:         req.Type,
		Category:     req.Category,
		FileURL:      req.FileURL,
		ThumbnailURL: req.ThumbnailURL,
	}
	if err := h.db.Create(&resource).Error; err != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to create resource")
	}

	return utils.SendResponse(c, fiber.StatusCreated, true, resource, "Resource created successfully")
}

type UpdateResourceRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Type         *string `json:"type"`
	Category     *string `json:"category"`
	FileURL      *string `json:"file_url"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

func (h *ResourceHandler) UpdateResource(c *fiber.Ctx) error {
	resourceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid resource id")
	}

	var req UpdateResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Cannot parse JSON")
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.FileURL != nil {
		updates["file_url"] = *req.FileURL
	}
	if req.ThumbnailURL != nil {
		updates["thumbnail_url"] = *req.ThumbnailURL
	}
	if len(updates) == 0 {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Nothing to update")
	}

	result := h.db.Model(&models.Resource{}).Where("id = ?", resourceID).Updates(updates)
	if result.Error != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to update resource")
	}
	if result.RowsAffected == 0 {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Resource not found")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, nil, "Resource updated successfully")
}

func (h *ResourceHandler) DeleteResource(c *fiber.Ctx) error {
	resourceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid resource id")
	}

	result := h.db.Delete(&models.Resource{}, "id = ?", resourceID)
	if result.Error != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to delete resource")
	}
	if result.RowsAffected == 0 {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Resource not found")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, nil, "Resource deleted successfully")
}

func (h *ResourceHandler) IncrementDownload(c *fiber.Ctx) error {
	resourceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendResponse(c, fiber.StatusBadRequest, false, nil, "Invalid resource id")
	}

	result := h.db.Model(&models.Resource{}).
		Where("id = ?", resourceID).
		Update("downloads", gorm.Expr("downloads + ?", 1))
	if result.Error != nil {
		return utils.SendResponse(c, fiber.StatusInternalServerError, false, nil, "Failed to record download")
	}
	if result.RowsAffected == 0 {
		return utils.SendResponse(c, fiber.StatusNotFound, false, nil, "Resource not found")
	}

	return utils.SendResponse(c, fiber.StatusOK, true, nil, "Download recorded")
}

func (h *ResourceHandler) GetResourceStats(c *fiber.Ctx) error {
	var total int64
	h.db.Model(&models.Resource{}).Count(&total)

	type bucket struct {
		Key   string `json:"key"`
		Count int64  `json:"count"`
	}
	var byType []bucket
	h.db.Model(&models.Resource{}).
		Select("type as key, count(*) as count").
		Group("type").
		Scan(&byType)

	var byCategory []bucket
	h.db.Model(&models.Resource{}).
		Select("category as key, count(*) as count").
		Group("category").
		Scan(&byCategory)

	return utils.SendResponse(c, fiber.StatusOK, true, fiber.Map{
		"total":       total,
		"by_type":     byType,
		"by_category": byCategory,
	}, "Resource stats fetched")
}
