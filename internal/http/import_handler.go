package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/StellarBearX/stanlendar-sub003/internal/domain"
	"github.com/StellarBearX/stanlendar-sub003/internal/repository"
	"github.com/StellarBearX/stanlendar-sub003/internal/service"
)

// ImportHandler mantiene dependencias para endpoints de import jobs e items.
type ImportHandler struct {
	logger     *zap.Logger
	importServ *service.ImportService
	jobs       repository.ImportJobRepository
	items      repository.ImportItemRepository
}

func NewImportHandler(
	logger *zap.Logger,
	importServ *service.ImportService,
	jobs repository.ImportJobRepository,
	items repository.ImportItemRepository,
) *ImportHandler {
	return &ImportHandler{
		logger:     logger,
		importServ: importServ,
		jobs:       jobs,
		items:      items,
	}
}

// CreateImport maneja POST /imports.
func (h *ImportHandler) CreateImport(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
		return
	}

	var req struct {
		SourcePath string `json:"source_path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create import request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	job, err := h.importServ.RegisterJob(c.Request.Context(), claims.UserID, req.SourcePath)
	if err != nil {
		if errors.Is(err, service.ErrInvalidImportSource) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "source_path must be a .json roster"})
			return
		}
		h.logger.Error("create import failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create import"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"import": job})
}

// ListImports maneja GET /imports.
func (h *ImportHandler) ListImports(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
		return
	}

	jobs, err := h.jobs.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list imports failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list imports"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imports": jobs})
}

// GetImport maneja GET /imports/:id.
func (h *ImportHandler) GetImport(c *gin.Context) {
	job, ok := h.ownedJob(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"import": job})
}

// ListImportItems maneja GET /imports/:id/items, con filtro opcional ?status=.
func (h *ImportHandler) ListImportItems(c *gin.Context) {
	job, ok := h.ownedJob(c)
	if !ok {
		return
	}

	var (
		items []domain.ImportItem
		err   error
	)
	if status := c.Query("status"); status != "" {
		if !domain.ValidItemStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		items, err = h.items.ListByJobAndStatus(c.Request.Context(), job.ID, status)
	} else {
		items, err = h.items.ListByJob(c.Request.Context(), job.ID)
	}
	if err != nil {
		h.logger.Error("list import items failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateImportItem maneja POST /imports/:id/items.
func (h *ImportHandler) CreateImportItem(c *gin.Context) {
	job, ok := h.ownedJob(c)
	if !ok {
		return
	}

	var req struct {
		RowIndex   int64  `json:"row_index"`
		CourseCode string `json:"course_code"`
		CourseName string `json:"course_name"`
		DayOfWeek  int    `json:"day_of_week"`
		StartTime  string `json:"start_time"`
		EndTime    string `json:"end_time"`
		Room       string `json:"room"`
		Teacher    string `json:"teacher"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create item request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	item, err := h.items.Create(c.Request.Context(), domain.ImportItem{
		ImportJobID: job.ID,
		RowIndex:    req.RowIndex,
		Status:      domain.ItemStatusPending,
		CourseCode:  req.CourseCode,
		CourseName:  req.CourseName,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Room:        req.Room,
		Teacher:     req.Teacher,
	})
	if err != nil {
		h.logger.Error("create import item failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// ListAllItems maneja GET /import-items. Sin paginación.
func (h *ImportHandler) ListAllItems(c *gin.Context) {
	items, err := h.items.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list all items failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetImportItem maneja GET /import-items/:itemID.
func (h *ImportHandler) GetImportItem(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	item, err := h.items.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("get import item failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load item"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// UpdateImportItem maneja PATCH /import-items/:itemID.
func (h *ImportHandler) UpdateImportItem(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}

	var req struct {
		Status     *string `json:"status"`
		CourseCode *string `json:"course_code"`
		CourseName *string `json:"course_name"`
		DayOfWeek  *int    `json:"day_of_week"`
		StartTime  *string `json:"start_time"`
		EndTime    *string `json:"end_time"`
		Room       *string `json:"room"`
		Teacher    *string `json:"teacher"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update item request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Status != nil && !domain.ValidItemStatus(*req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	item, err := h.items.Update(c.Request.Context(), id, domain.ImportItemPatch{
		Status:     req.Status,
		CourseCode: req.CourseCode,
		CourseName: req.CourseName,
		DayOfWeek:  req.DayOfWeek,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Room:       req.Room,
		Teacher:    req.Teacher,
	})
	if err != nil {
		h.logger.Error("update import item failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update item"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteImportItem maneja DELETE /import-items/:itemID. Idempotente.
func (h *ImportHandler) DeleteImportItem(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	if err := h.items.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("delete import item failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete item"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ownedJob carga el job de la ruta y verifica que pertenezca al caller.
func (h *ImportHandler) ownedJob(c *gin.Context) (*domain.ImportJob, bool) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
		return nil, false
	}

	job, err := h.jobs.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("get import failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load import"})
		return nil, false
	}
	if job == nil || job.UserID != claims.UserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "import not found"})
		return nil, false
	}
	return job, true
}

func itemID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("itemID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return 0, false
	}
	return id, true
}
