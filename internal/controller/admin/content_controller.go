package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Kindred/internal/controller"
	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/service"
)

// maxCoverSize caps cover image uploads at 5 MiB.
const maxCoverSize = 5 << 20

type ContentController struct {
	contentService service.ContentService
}

func NewContentController(contentService service.ContentService) *ContentController {
	return &ContentController{contentService: contentService}
}

// ListArticles godoc
// @Summary (Admin) All articles, drafts included
// @Tags Admin - Content
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ArticleResponseDTO
// @Router /admin/articles [get]
func (c *ContentController) ListArticles(ctx *gin.Context) {
	resp, err := c.contentService.ListArticles(false)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve articles")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetArticle godoc
// @Summary (Admin) One article
// @Tags Admin - Content
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} dto.ArticleResponseDTO
// @Router /admin/articles/{id} [get]
func (c *ContentController) GetArticle(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.contentService.GetArticle(id)
	if err != nil {
		controller.RespondError(ctx, err, "Article not found")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CreateArticle godoc
// @Summary (Admin) Create a draft article
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ArticleCreateDTO true "Article"
// @Success 201 {object} dto.ArticleResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid slug, title or body"
// @Failure 409 {object} dto.ErrorResponse "Slug taken"
// @Router /admin/articles [post]
func (c *ContentController) CreateArticle(ctx *gin.Context) {
	var req dto.ArticleCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.contentService.CreateArticle(req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to create article")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// UpdateArticle godoc
// @Summary (Admin) Edit an article
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Param body body dto.ArticleCreateDTO true "Article"
// @Success 200 {object} dto.ArticleResponseDTO
// @Router /admin/articles/{id} [put]
func (c *ContentController) UpdateArticle(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ArticleCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.contentService.UpdateArticle(id, req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to update article")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// PublishArticle godoc
// @Summary (Admin) Publish an article
// @Tags Admin - Content
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} dto.ArticleResponseDTO
// @Router /admin/articles/{id}/publish [post]
func (c *ContentController) PublishArticle(ctx *gin.Context) {
	c.setPublished(ctx, true)
}

// UnpublishArticle godoc
// @Summary (Admin) Move an article back to draft
// @Tags Admin - Content
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} dto.ArticleResponseDTO
// @Router /admin/articles/{id}/unpublish [post]
func (c *ContentController) UnpublishArticle(ctx *gin.Context) {
	c.setPublished(ctx, false)
}

func (c *ContentController) setPublished(ctx *gin.Context, published bool) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.contentService.SetArticlePublished(id, published)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to change article visibility")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UploadCover godoc
// @Summary (Admin) Upload an article cover image
// @Tags Admin - Content
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Param file formData file true "JPEG, PNG or WebP image"
// @Success 200 {object} dto.ArticleResponseDTO
// @Failure 503 {object} dto.ErrorResponse "Storage not configured"
// @Router /admin/articles/{id}/cover [post]
func (c *ContentController) UploadCover(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	header, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "A file field is required", Details: []string{err.Error()}})
		return
	}
	if header.Size > maxCoverSize {
		ctx.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Message: "Cover images are limited to 5 MiB"})
		return
	}
	file, err := header.Open()
	if err != nil {
		controller.RespondError(ctx, err, "Failed to read upload")
		return
	}
	defer file.Close()

	resp, err := c.contentService.UploadCover(ctx.Request.Context(), id, file, header.Header.Get("Content-Type"))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to upload cover")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteArticle godoc
// @Summary (Admin) Delete an article
// @Tags Admin - Content
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 204
// @Router /admin/articles/{id} [delete]
func (c *ContentController) DeleteArticle(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.contentService.DeleteArticle(id); err != nil {
		controller.RespondError(ctx, err, "Failed to delete article")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ListFAQs godoc
// @Summary (Admin) All FAQs
// @Tags Admin - Content
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.FAQResponseDTO
// @Router /admin/faqs [get]
func (c *ContentController) ListFAQs(ctx *gin.Context) {
	resp, err := c.contentService.ListFAQs(false)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve FAQs")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CreateFAQ godoc
// @Summary (Admin) Create an FAQ
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.FAQCreateDTO true "FAQ"
// @Success 201 {object} dto.FAQResponseDTO
// @Router /admin/faqs [post]
func (c *ContentController) CreateFAQ(ctx *gin.Context) {
	var req dto.FAQCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.contentService.CreateFAQ(req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to create FAQ")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// UpdateFAQ godoc
// @Summary (Admin) Edit an FAQ
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "FAQ ID"
// @Param body body dto.FAQCreateDTO true "FAQ"
// @Success 200 {object} dto.FAQResponseDTO
// @Router /admin/faqs/{id} [put]
func (c *ContentController) UpdateFAQ(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.FAQCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.contentService.UpdateFAQ(id, req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to update FAQ")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteFAQ godoc
// @Summary (Admin) Delete an FAQ
// @Tags Admin - Content
// @Security BearerAuth
// @Param id path int true "FAQ ID"
// @Success 204
// @Router /admin/faqs/{id} [delete]
func (c *ContentController) DeleteFAQ(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.contentService.DeleteFAQ(id); err != nil {
		controller.RespondError(ctx, err, "Failed to delete FAQ")
		return
	}
	ctx.Status(http.StatusNoContent)
}
