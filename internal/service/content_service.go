package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/model"
	"github.com/lshigami/Kindred/internal/repository"
	"github.com/lshigami/Kindred/internal/storage"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var coverTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type ContentService interface {
	ListArticles(publishedOnly bool) ([]dto.ArticleResponseDTO, error)
	GetArticleBySlug(slug string) (*dto.ArticleResponseDTO, error)
	GetArticle(id uint) (*dto.ArticleResponseDTO, error)
	CreateArticle(req dto.ArticleCreateDTO) (*dto.ArticleResponseDTO, error)
	UpdateArticle(id uint, req dto.ArticleCreateDTO) (*dto.ArticleResponseDTO, error)
	SetArticlePublished(id uint, published bool) (*dto.ArticleResponseDTO, error)
	UploadCover(ctx context.Context, id uint, r io.Reader, contentType string) (*dto.ArticleResponseDTO, error)
	DeleteArticle(id uint) error

	ListFAQs(publishedOnly bool) ([]dto.FAQResponseDTO, error)
	CreateFAQ(req dto.FAQCreateDTO) (*dto.FAQResponseDTO, error)
	UpdateFAQ(id uint, req dto.FAQCreateDTO) (*dto.FAQResponseDTO, error)
	DeleteFAQ(id uint) error
}

type contentService struct {
	articleRepo repository.ArticleRepository
	faqRepo     repository.FAQRepository
	uploader    Uploader
	now         func() time.Time
}

func NewContentService(articleRepo repository.ArticleRepository, faqRepo repository.FAQRepository, uploader Uploader) ContentService {
	return &contentService{
		articleRepo: articleRepo,
		faqRepo:     faqRepo,
		uploader:    uploader,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *contentService) ListArticles(publishedOnly bool) ([]dto.ArticleResponseDTO, error) {
	articles, err := s.articleRepo.FindAll(publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("error fetching articles: %w", err)
	}
	resp := make([]dto.ArticleResponseDTO, 0, len(articles))
	if err := copier.Copy(&resp, &articles); err != nil {
		return nil, fmt.Errorf("error preparing article list: %w", err)
	}
	if publishedOnly {
		// Listings carry the teaser only.
		for i := range resp {
			resp[i].Body = ""
		}
	}
	return resp, nil
}

// GetArticleBySlug is the public read; drafts are reported as missing.
func (s *contentService) GetArticleBySlug(slug string) (*dto.ArticleResponseDTO, error) {
	article, err := s.articleRepo.FindBySlug(slug)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("article %q", slug), err)
	}
	if !article.Published {
		return nil, fmt.Errorf("article %q: %w", slug, ErrNotFound)
	}
	return toArticleDTO(article)
}

func (s *contentService) GetArticle(id uint) (*dto.ArticleResponseDTO, error) {
	article, err := s.articleRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("article %d", id), err)
	}
	return toArticleDTO(article)
}

func (s *contentService) CreateArticle(req dto.ArticleCreateDTO) (*dto.ArticleResponseDTO, error) {
	if err := validateArticle(req); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(req.Slug, 0); err != nil {
		return nil, err
	}

	article := model.Article{
		Slug:    req.Slug,
		Title:   strings.TrimSpace(req.Title),
		Summary: strings.TrimSpace(req.Summary),
		Body:    req.Body,
	}
	if err := s.articleRepo.Create(&article); err != nil {
		log.Error().Err(err).Str("slug", req.Slug).Msg("CreateArticle: database error")
		return nil, fmt.Errorf("create article: %w", err)
	}
	return toArticleDTO(&article)
}

func (s *contentService) UpdateArticle(id uint, req dto.ArticleCreateDTO) (*dto.ArticleResponseDTO, error) {
	if err := validateArticle(req); err != nil {
		return nil, err
	}
	article, err := s.articleRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("article %d", id), err)
	}
	if req.Slug != article.Slug {
		if err := s.ensureSlugFree(req.Slug, id); err != nil {
			return nil, err
		}
	}

	article.Slug = req.Slug
	article.Title = strings.TrimSpace(req.Title)
	article.Summary = strings.TrimSpace(req.Summary)
	article.Body = req.Body
	if err := s.articleRepo.Update(article); err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	return toArticleDTO(article)
}

// SetArticlePublished keeps the first publication date when an article is
// unpublished and published again.
func (s *contentService) SetArticlePublished(id uint, published bool) (*dto.ArticleResponseDTO, error) {
	article, err := s.articleRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("article %d", id), err)
	}
	article.Published = published
	if published && article.PublishedAt == nil {
		now := s.now()
		article.PublishedAt = &now
	}
	if err := s.articleRepo.Update(article); err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	log.Info().Uint("articleID", id).Bool("published", published).Msg("Article visibility changed")
	return toArticleDTO(article)
}

func (s *contentService) UploadCover(ctx context.Context, id uint, r io.Reader, contentType string) (*dto.ArticleResponseDTO, error) {
	ext, ok := coverTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("unsupported cover image type %q: %w", contentType, ErrInvalid)
	}
	article, err := s.articleRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("article %d", id), err)
	}

	key := path.Join("articles", article.Slug, uuid.NewString()+ext)
	url, err := s.uploader.Upload(ctx, key, r, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			return nil, fmt.Errorf("cover upload: %w", ErrUnavailable)
		}
		log.Error().Err(err).Uint("articleID", id).Msg("UploadCover: storage error")
		return nil, fmt.Errorf("upload cover: %w", err)
	}

	article.CoverImageURL = &url
	if err := s.articleRepo.Update(article); err != nil {
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("UploadCover: orphaned object left in bucket")
		}
		return nil, fmt.Errorf("save cover url: %w", err)
	}
	return toArticleDTO(article)
}

func (s *contentService) DeleteArticle(id uint) error {
	if _, err := s.articleRepo.FindByID(id); err != nil {
		return lookupErr(fmt.Sprintf("article %d", id), err)
	}
	return s.articleRepo.Delete(id)
}

func (s *contentService) ListFAQs(publishedOnly bool) ([]dto.FAQResponseDTO, error) {
	faqs, err := s.faqRepo.FindAll(publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("error fetching faqs: %w", err)
	}
	resp := make([]dto.FAQResponseDTO, 0, len(faqs))
	if err := copier.Copy(&resp, &faqs); err != nil {
		return nil, fmt.Errorf("error preparing faq list: %w", err)
	}
	return resp, nil
}

func (s *contentService) CreateFAQ(req dto.FAQCreateDTO) (*dto.FAQResponseDTO, error) {
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Answer) == "" {
		return nil, fmt.Errorf("question and answer are required: %w", ErrInvalid)
	}
	faq := model.FAQ{}
	if err := copier.Copy(&faq, &req); err != nil {
		return nil, fmt.Errorf("error mapping faq: %w", err)
	}
	if err := s.faqRepo.Create(&faq); err != nil {
		return nil, fmt.Errorf("create faq: %w", err)
	}
	return toFAQDTO(&faq)
}

func (s *contentService) UpdateFAQ(id uint, req dto.FAQCreateDTO) (*dto.FAQResponseDTO, error) {
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Answer) == "" {
		return nil, fmt.Errorf("question and answer are required: %w", ErrInvalid)
	}
	faq, err := s.faqRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("faq %d", id), err)
	}
	faq.Question = req.Question
	faq.Answer = req.Answer
	faq.Position = req.Position
	faq.Published = req.Published
	if err := s.faqRepo.Update(faq); err != nil {
		return nil, fmt.Errorf("update faq: %w", err)
	}
	return toFAQDTO(faq)
}

func (s *contentService) DeleteFAQ(id uint) error {
	if _, err := s.faqRepo.FindByID(id); err != nil {
		return lookupErr(fmt.Sprintf("faq %d", id), err)
	}
	return s.faqRepo.Delete(id)
}

func (s *contentService) ensureSlugFree(slug string, selfID uint) error {
	existing, err := s.articleRepo.FindBySlug(slug)
	if err == nil && existing.ID != selfID {
		return fmt.Errorf("slug %q is already taken: %w", slug, ErrConflict)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return lookupErr("article", err)
	}
	return nil
}

func validateArticle(req dto.ArticleCreateDTO) error {
	var problems []string
	if !slugPattern.MatchString(req.Slug) {
		problems = append(problems, "slug must be lowercase letters, digits and single hyphens")
	}
	if strings.TrimSpace(req.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(req.Body) == "" {
		problems = append(problems, "body is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(problems, "; "), ErrInvalid)
	}
	return nil
}

func toArticleDTO(a *model.Article) (*dto.ArticleResponseDTO, error) {
	var resp dto.ArticleResponseDTO
	if err := copier.Copy(&resp, a); err != nil {
		return nil, fmt.Errorf("error preparing article response: %w", err)
	}
	return &resp, nil
}

func toFAQDTO(f *model.FAQ) (*dto.FAQResponseDTO, error) {
	var resp dto.FAQResponseDTO
	if err := copier.Copy(&resp, f); err != nil {
		return nil, fmt.Errorf("error preparing faq response: %w", err)
	}
	return &resp, nil
}
