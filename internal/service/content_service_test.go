package service

import (
	"strings"
	"testing"
	"time"

	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentService(r *repos, up Uploader) *contentService {
	s := NewContentService(r.articles, r.faqs, up).(*contentService)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestArticlePublishing(t *testing.T) {
	r := newRepos(t)
	s := newContentService(r, &fakeUploader{})

	created, err := s.CreateArticle(dto.ArticleCreateDTO{Slug: "talking-about-money", Title: "Talking about money", Summary: "Start small.", Body: "Long body"})
	require.NoError(t, err)
	assert.False(t, created.Published)

	_, err = s.GetArticleBySlug("talking-about-money")
	assert.ErrorIs(t, err, ErrNotFound, "drafts are hidden from readers")

	published, err := s.SetArticlePublished(created.ID, true)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	assert.True(t, published.PublishedAt.Equal(fixedNow))

	got, err := s.GetArticleBySlug("talking-about-money")
	require.NoError(t, err)
	assert.Equal(t, "Long body", got.Body)

	list, err := s.ListArticles(true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Body)
	assert.Equal(t, "Start small.", list[0].Summary)

	s.now = func() time.Time { return fixedNow.Add(24 * time.Hour) }
	_, err = s.SetArticlePublished(created.ID, false)
	require.NoError(t, err)
	again, err := s.SetArticlePublished(created.ID, true)
	require.NoError(t, err)
	assert.True(t, again.PublishedAt.Equal(fixedNow))

	require.NoError(t, s.DeleteArticle(created.ID))
	assert.ErrorIs(t, s.DeleteArticle(created.ID), ErrNotFound)
}

func TestArticleValidation(t *testing.T) {
	r := newRepos(t)
	s := newContentService(r, &fakeUploader{})

	for _, slug := range []string{"", "Upper", "double--hyphen", "-lead", "trail-", "space here"} {
		_, err := s.CreateArticle(dto.ArticleCreateDTO{Slug: slug, Title: "T", Body: "B"})
		assert.ErrorIs(t, err, ErrInvalid, "slug %q", slug)
	}

	_, err := s.CreateArticle(dto.ArticleCreateDTO{Slug: "ok", Title: " ", Body: ""})
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "title is required")
	assert.Contains(t, err.Error(), "body is required")

	first, err := s.CreateArticle(dto.ArticleCreateDTO{Slug: "first-post", Title: "T", Body: "B"})
	require.NoError(t, err)
	second, err := s.CreateArticle(dto.ArticleCreateDTO{Slug: "second-post", Title: "T", Body: "B"})
	require.NoError(t, err)

	_, err = s.CreateArticle(dto.ArticleCreateDTO{Slug: "first-post", Title: "T", Body: "B"})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = s.UpdateArticle(second.ID, dto.ArticleCreateDTO{Slug: "first-post", Title: "T", Body: "B"})
	assert.ErrorIs(t, err, ErrConflict)

	updated, err := s.UpdateArticle(first.ID, dto.ArticleCreateDTO{Slug: "first-post", Title: "New title", Body: "B"})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
}

func TestUploadCover(t *testing.T) {
	r := newRepos(t)
	up := &fakeUploader{}
	s := newContentService(r, up)
	article, err := s.CreateArticle(dto.ArticleCreateDTO{Slug: "covers", Title: "T", Body: "B"})
	require.NoError(t, err)

	_, err = s.UploadCover(t.Context(), article.ID, strings.NewReader("gif"), "image/gif")
	assert.ErrorIs(t, err, ErrInvalid)

	got, err := s.UploadCover(t.Context(), article.ID, strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	require.NotNil(t, got.CoverImageURL)
	assert.True(t, strings.HasPrefix(*got.CoverImageURL, "https://files.example/articles/covers/"))
	assert.True(t, strings.HasSuffix(*got.CoverImageURL, ".png"))
	require.Len(t, up.objects, 1)

	unconfigured := newContentService(r, &storage.B2Storage{})
	_, err = unconfigured.UploadCover(t.Context(), article.ID, strings.NewReader("x"), "image/png")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = s.UploadCover(t.Context(), 999, strings.NewReader("x"), "image/png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFAQs(t *testing.T) {
	r := newRepos(t)
	s := newContentService(r, &fakeUploader{})

	second, err := s.CreateFAQ(dto.FAQCreateDTO{Question: "Refunds?", Answer: "Within 14 days.", Position: 2, Published: true})
	require.NoError(t, err)
	_, err = s.CreateFAQ(dto.FAQCreateDTO{Question: "How long?", Answer: "20 minutes.", Position: 1, Published: true})
	require.NoError(t, err)
	draft, err := s.CreateFAQ(dto.FAQCreateDTO{Question: "Draft?", Answer: "Not yet.", Position: 0})
	require.NoError(t, err)
	assert.False(t, draft.Published)

	public, err := s.ListFAQs(true)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, "How long?", public[0].Question)

	_, err = s.UpdateFAQ(second.ID, dto.FAQCreateDTO{Question: "Refunds?", Answer: "Within 30 days.", Position: 2, Published: false})
	require.NoError(t, err)
	public, err = s.ListFAQs(true)
	require.NoError(t, err)
	assert.Len(t, public, 1)

	all, err := s.ListFAQs(false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = s.CreateFAQ(dto.FAQCreateDTO{Question: " ", Answer: "x"})
	assert.ErrorIs(t, err, ErrInvalid)
	require.NoError(t, s.DeleteFAQ(draft.ID))
	assert.ErrorIs(t, s.DeleteFAQ(draft.ID), ErrNotFound)
}
