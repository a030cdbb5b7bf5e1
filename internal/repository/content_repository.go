package repository

import (
	"github.com/lshigami/Kindred/internal/model"
	"gorm.io/gorm"
)

type ArticleRepository interface {
	Create(article *model.Article) error
	FindByID(id uint) (*model.Article, error)
	FindBySlug(slug string) (*model.Article, error)
	FindAll(publishedOnly bool) ([]model.Article, error)
	CountPublished() (int64, error)
	Update(article *model.Article) error
	Delete(id uint) error
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(article *model.Article) error {
	return r.db.Create(article).Error
}

func (r *articleRepository) FindByID(id uint) (*model.Article, error) {
	var article model.Article
	if err := r.db.First(&article, id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) FindBySlug(slug string) (*model.Article, error) {
	var article model.Article
	if err := r.db.Where("slug = ?", slug).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) FindAll(publishedOnly bool) ([]model.Article, error) {
	var articles []model.Article
	query := r.db
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	err := query.Order("published_at DESC, created_at DESC").Find(&articles).Error
	return articles, err
}

func (r *articleRepository) CountPublished() (int64, error) {
	var n int64
	err := r.db.Model(&model.Article{}).Where("published = ?", true).Count(&n).Error
	return n, err
}

func (r *articleRepository) Update(article *model.Article) error {
	return r.db.Save(article).Error
}

func (r *articleRepository) Delete(id uint) error {
	return r.db.Delete(&model.Article{}, id).Error
}

type FAQRepository interface {
	Create(faq *model.FAQ) error
	FindByID(id uint) (*model.FAQ, error)
	FindAll(publishedOnly bool) ([]model.FAQ, error)
	Update(faq *model.FAQ) error
	Delete(id uint) error
}

type faqRepository struct {
	db *gorm.DB
}

func NewFAQRepository(db *gorm.DB) FAQRepository {
	return &faqRepository{db: db}
}

func (r *faqRepository) Create(faq *model.FAQ) error {
	return r.db.Create(faq).Error
}

func (r *faqRepository) FindByID(id uint) (*model.FAQ, error) {
	var faq model.FAQ
	if err := r.db.First(&faq, id).Error; err != nil {
		return nil, err
	}
	return &faq, nil
}

func (r *faqRepository) FindAll(publishedOnly bool) ([]model.FAQ, error) {
	var faqs []model.FAQ
	query := r.db
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	err := query.Order("position ASC, id ASC").Find(&faqs).Error
	return faqs, err
}

func (r *faqRepository) Update(faq *model.FAQ) error {
	return r.db.Save(faq).Error
}

func (r *faqRepository) Delete(id uint) error {
	return r.db.Delete(&model.FAQ{}, id).Error
}
