package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Kindred/internal/controller"
	"github.com/lshigami/Kindred/internal/service"
)

// ContentController serves the public questionnaire, articles and FAQs.
type ContentController struct {
	questionService service.QuestionService
	contentService  service.ContentService
}

func NewContentController(questionService service.QuestionService, contentService service.ContentService) *ContentController {
	return &ContentController{questionService: questionService, contentService: contentService}
}

// ListQuestions godoc
// @Summary Published questionnaire
// @Tags Content
// @Produce json
// @Success 200 {array} dto.QuestionResponseDTO
// @Router /questions [get]
func (c *ContentController) ListQuestions(ctx *gin.Context) {
	resp, err := c.questionService.ListPublished()
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve questions")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListArticles godoc
// @Summary Published articles
// @Tags Content
// @Produce json
// @Success 200 {array} dto.ArticleResponseDTO
// @Router /articles [get]
func (c *ContentController) ListArticles(ctx *gin.Context) {
	resp, err := c.contentService.ListArticles(true)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve articles")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetArticle godoc
// @Summary One published article
// @Tags Content
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} dto.ArticleResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Article not found"
// @Router /articles/{slug} [get]
func (c *ContentController) GetArticle(ctx *gin.Context) {
	resp, err := c.contentService.GetArticleBySlug(ctx.Param("slug"))
	if err != nil {
		controller.RespondError(ctx, err, "Article not found")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListFAQs godoc
// @Summary Published FAQs
// @Tags Content
// @Produce json
// @Success 200 {array} dto.FAQResponseDTO
// @Router /faqs [get]
func (c *ContentController) ListFAQs(ctx *gin.Context) {
	resp, err := c.contentService.ListFAQs(true)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve FAQs")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
