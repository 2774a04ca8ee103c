// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/clarashop/clara-backend/internal/database"
	"github.com/clarashop/clara-backend/internal/editor"
	"github.com/clarashop/clara-backend/internal/models"
	"github.com/clarashop/clara-backend/internal/utils"
)

type ProductService struct {
	db      *gorm.DB
	storage *StorageService
}

func NewProductService(db *gorm.DB, storage *StorageService) *ProductService {
	return &ProductService{
		db:      db,
		storage: storage,
	}
}

// ProductRequest carries the scalar product fields of a create/update form.
type ProductRequest struct {
	Name                string   `form:"name" validate:"required,max=255"`
	Description         string   `form:"description"`
	Price               float64  `form:"price" validate:"required,gt=0"`
	SalePrice           *float64 `form:"sale_price" validate:"omitempty,gt=0"`
	Offer2OriginalPrice *float64 `form:"offer2_original_price" validate:"omitempty,gt=0"`
	Offer2SalePrice     *float64 `form:"offer2_sale_price" validate:"omitempty,gt=0"`
	Offer3OriginalPrice *float64 `form:"offer3_original_price" validate:"omitempty,gt=0"`
	Offer3SalePrice     *float64 `form:"offer3_sale_price" validate:"omitempty,gt=0"`
}

// FeatureRowInput is one row of the structured "features" form field. Image
// is either a stored image URL or a "file:<n>" reference into the uploaded
// feature files.
type FeatureRowInput struct {
	ID          *uint  `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// ProductFormInput is the parsed multipart payload of the admin product
// form. Primary selects the cover image: "existing:<id>" or "new:<index>".
type ProductFormInput struct {
	ProductRequest
	Images       []*multipart.FileHeader
	FeatureFiles []*multipart.FileHeader
	Primary      string
	RemovedImgs  []uint
	Features     []FeatureRowInput
}

type ProductSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// GetProduct returns one product with its images ordered by creation and
// its features ordered by display order.
func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.created_at ASC, product_images.id ASC")
		}).
		Preload("Features", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_features.display_order ASC, product_features.id ASC")
		}).
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// ListProducts returns id/name pairs for all products, newest first.
func (s *ProductService) ListProducts() ([]ProductSummary, error) {
	var summaries []ProductSummary
	err := s.db.Model(&models.Product{}).
		Select("id", "name").
		Order("created_at DESC, id DESC").
		Find(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return summaries, nil
}

func (s *ProductService) CreateProduct(input *ProductFormInput) (*models.Product, error) {
	// Validate request
	if err := utils.ValidateStruct(&input.ProductRequest); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	imageSet := editor.NewImageSet(nil)
	defer imageSet.Close()

	options := s.storage.GetDefaultUploadOptions("products")
	for _, header := range input.Images {
		preview, err := s.storage.SpoolPreview(header, options)
		if err != nil {
			return nil, err
		}
		imageSet.Add(preview)
	}

	if err := s.applyPrimary(imageSet, input.Primary); err != nil {
		return nil, err
	}

	entries, form, err := s.buildFeatureEntries(input, nil)
	if err != nil {
		return nil, err
	}
	defer form.Close()

	plan := imageSet.Plan()

	// Blob uploads happen before the database writes; a failed write leaves
	// orphaned objects rather than half-written rows.
	imageURLs, err := s.uploadPreviews(plan.NewPreviews, options)
	if err != nil {
		return nil, err
	}

	featureURLs, err := s.resolveFeatureURLs(entries)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:                input.Name,
		Description:         input.Description,
		Price:               input.Price,
		SalePrice:           input.SalePrice,
		Offer2OriginalPrice: input.Offer2OriginalPrice,
		Offer2SalePrice:     input.Offer2SalePrice,
		Offer3OriginalPrice: input.Offer3OriginalPrice,
		Offer3SalePrice:     input.Offer3SalePrice,
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		for i, imageURL := range imageURLs {
			image := models.ProductImage{
				ProductID: product.ID,
				URL:       imageURL,
				IsPrimary: plan.PrimaryNewIndex != nil && *plan.PrimaryNewIndex == i,
			}
			if err := tx.Create(&image).Error; err != nil {
				return fmt.Errorf("failed to create product image: %w", err)
			}
			if image.IsPrimary {
				product.ImageURL = image.URL
			}
		}

		for i, entry := range entries {
			feature := models.ProductFeature{
				ProductID:   product.ID,
				ImageURL:    featureURLs[i],
				Title:       entry.Title,
				Description: entry.Description,
				Order:       entry.Order,
			}
			if err := tx.Create(&feature).Error; err != nil {
				return fmt.Errorf("failed to create product feature: %w", err)
			}
		}

		if product.ImageURL != "" {
			if err := tx.Model(product).Update("image_url", product.ImageURL).Error; err != nil {
				return fmt.Errorf("failed to set cover image: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduct(product.ID)
}

func (s *ProductService) UpdateProduct(id uint, input *ProductFormInput) (*models.Product, error) {
	// Validate request
	if err := utils.ValidateStruct(&input.ProductRequest); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	existing := make([]editor.ExistingImage, 0, len(product.Images))
	for _, img := range product.Images {
		existing = append(existing, editor.ExistingImage{ID: img.ID, URL: img.URL, IsPrimary: img.IsPrimary})
	}

	imageSet := editor.NewImageSet(existing)
	defer imageSet.Close()

	options := s.storage.GetDefaultUploadOptions("products")
	for _, header := range input.Images {
		preview, err := s.storage.SpoolPreview(header, options)
		if err != nil {
			return nil, err
		}
		imageSet.Add(preview)
	}

	for _, removedID := range input.RemovedImgs {
		if err := imageSet.RemoveExisting(removedID); err != nil {
			return nil, err
		}
	}

	if err := s.applyPrimary(imageSet, input.Primary); err != nil {
		return nil, err
	}

	entries, form, err := s.buildFeatureEntries(input, product)
	if err != nil {
		return nil, err
	}
	defer form.Close()

	plan := imageSet.Plan()

	imageURLs, err := s.uploadPreviews(plan.NewPreviews, options)
	if err != nil {
		return nil, err
	}

	featureURLs, err := s.resolveFeatureURLs(entries)
	if err != nil {
		return nil, err
	}

	removedURLs := make(map[uint]string)
	for _, img := range product.Images {
		removedURLs[img.ID] = img.URL
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":                  input.Name,
			"description":           input.Description,
			"price":                 input.Price,
			"sale_price":            input.SalePrice,
			"offer2_original_price": input.Offer2OriginalPrice,
			"offer2_sale_price":     input.Offer2SalePrice,
			"offer3_original_price": input.Offer3OriginalPrice,
			"offer3_sale_price":     input.Offer3SalePrice,
		}
		if err := tx.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		if len(plan.RemovedIDs) > 0 {
			if err := tx.Where("product_id = ? AND id IN ?", id, plan.RemovedIDs).
				Delete(&models.ProductImage{}).Error; err != nil {
				return fmt.Errorf("failed to delete product images: %w", err)
			}
		}

		// Reset primary flags, then mark the selected cover.
		if err := tx.Model(&models.ProductImage{}).Where("product_id = ?", id).
			Update("is_primary", false).Error; err != nil {
			return fmt.Errorf("failed to reset primary image: %w", err)
		}

		coverURL := ""
		if plan.PrimaryExistingID != nil {
			if err := tx.Model(&models.ProductImage{}).
				Where("product_id = ? AND id = ?", id, *plan.PrimaryExistingID).
				Update("is_primary", true).Error; err != nil {
				return fmt.Errorf("failed to set primary image: %w", err)
			}
			var cover models.ProductImage
			if err := tx.First(&cover, *plan.PrimaryExistingID).Error; err == nil {
				coverURL = cover.URL
			}
		}

		for i, imageURL := range imageURLs {
			image := models.ProductImage{
				ProductID: id,
				URL:       imageURL,
				IsPrimary: plan.PrimaryNewIndex != nil && *plan.PrimaryNewIndex == i,
			}
			if err := tx.Create(&image).Error; err != nil {
				return fmt.Errorf("failed to create product image: %w", err)
			}
			if image.IsPrimary {
				coverURL = image.URL
			}
		}

		if err := tx.Model(&models.Product{}).Where("id = ?", id).
			Update("image_url", coverURL).Error; err != nil {
			return fmt.Errorf("failed to set cover image: %w", err)
		}

		// Feature rows are replaced wholesale from the submitted form.
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductFeature{}).Error; err != nil {
			return fmt.Errorf("failed to clear product features: %w", err)
		}
		for i, entry := range entries {
			feature := models.ProductFeature{
				ProductID:   id,
				ImageURL:    featureURLs[i],
				Title:       entry.Title,
				Description: entry.Description,
				Order:       entry.Order,
			}
			if err := tx.Create(&feature).Error; err != nil {
				return fmt.Errorf("failed to create product feature: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Best-effort cleanup of removed blobs after commit.
	for _, removedID := range plan.RemovedIDs {
		s.deleteBlobByURL(removedURLs[removedID])
	}

	return s.GetProduct(id)
}

func (s *ProductService) DeleteProduct(id uint) error {
	product, err := s.GetProduct(id)
	if err != nil {
		return err
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductFeature{}).Error; err != nil {
			return fmt.Errorf("failed to delete product features: %w", err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete product images: %w", err)
		}
		if err := tx.Delete(&models.Product{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, img := range product.Images {
		s.deleteBlobByURL(img.URL)
	}
	for _, feat := range product.Features {
		s.deleteBlobByURL(feat.ImageURL)
	}

	return nil
}

func (s *ProductService) applyPrimary(set *editor.ImageSet, primary string) error {
	if primary == "" {
		return nil
	}

	switch {
	case strings.HasPrefix(primary, "existing:"):
		id, err := strconv.ParseUint(strings.TrimPrefix(primary, "existing:"), 10, 32)
		if err != nil {
			return fmt.Errorf("invalid primary image reference %q", primary)
		}
		return set.SetPrimaryExisting(uint(id))
	case strings.HasPrefix(primary, "new:"):
		index, err := strconv.Atoi(strings.TrimPrefix(primary, "new:"))
		if err != nil {
			return fmt.Errorf("invalid primary image reference %q", primary)
		}
		return set.SetPrimaryNew(index)
	default:
		return fmt.Errorf("invalid primary image reference %q", primary)
	}
}

// buildFeatureEntries replays the submitted rows through a FeatureForm so
// incomplete rows are dropped and preview lifetimes are tracked. The caller
// must Close the returned form after uploading.
func (s *ProductService) buildFeatureEntries(input *ProductFormInput, product *models.Product) ([]editor.FeatureEntry, *editor.FeatureForm, error) {
	defaultImage := ""
	if product != nil {
		if cover := product.PrimaryImage(); cover != nil {
			defaultImage = cover.URL
		}
	}

	form := editor.NewFeatureForm(nil, defaultImage)
	options := s.storage.GetDefaultUploadOptions("features")

	for i, row := range input.Features {
		form.AddRow()
		if err := form.SetTitle(i, strings.TrimSpace(row.Title)); err != nil {
			form.Close()
			return nil, nil, err
		}
		if err := form.SetDescription(i, row.Description); err != nil {
			form.Close()
			return nil, nil, err
		}

		ref, err := s.resolveFeatureImage(row.Image, input.FeatureFiles, options)
		if err != nil {
			form.Close()
			return nil, nil, err
		}
		if err := form.SetImage(i, ref); err != nil {
			form.Close()
			return nil, nil, err
		}
	}

	return form.Submit(), form, nil
}

// resolveFeatureImage turns a row's image field into an ImageRef. A
// "file:<n>" reference spools the n-th uploaded feature file; anything else
// is treated as a stored URL.
func (s *ProductService) resolveFeatureImage(image string, files []*multipart.FileHeader, options UploadOptions) (editor.ImageRef, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return editor.ImageRef{}, nil
	}

	if strings.HasPrefix(image, "file:") {
		index, err := strconv.Atoi(strings.TrimPrefix(image, "file:"))
		if err != nil || index < 0 || index >= len(files) {
			return editor.ImageRef{}, fmt.Errorf("invalid feature file reference %q", image)
		}
		preview, err := s.storage.SpoolPreview(files[index], options)
		if err != nil {
			return editor.ImageRef{}, err
		}
		return editor.ImageRef{Preview: preview}, nil
	}

	return editor.ImageRef{URL: image}, nil
}

func (s *ProductService) uploadPreviews(previews []*editor.PreviewHandle, options UploadOptions) ([]string, error) {
	urls := make([]string, 0, len(previews))
	for _, preview := range previews {
		result, err := s.storage.UploadPreview(preview, options)
		if err != nil {
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}
		urls = append(urls, result.URL)
	}
	return urls, nil
}

func (s *ProductService) resolveFeatureURLs(entries []editor.FeatureEntry) ([]string, error) {
	options := s.storage.GetDefaultUploadOptions("features")
	urls := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Image.Preview != nil {
			result, err := s.storage.UploadPreview(entry.Image.Preview, options)
			if err != nil {
				return nil, fmt.Errorf("failed to upload feature image: %w", err)
			}
			urls = append(urls, result.URL)
			continue
		}
		urls = append(urls, entry.Image.URL)
	}
	return urls, nil
}

// deleteBlobByURL removes a stored object given its public URL. Failures
// are logged, never surfaced; rows are already gone.
func (s *ProductService) deleteBlobByURL(rawURL string) {
	if rawURL == "" {
		return
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		logrus.WithField("url", rawURL).Warn("Cannot parse stored file URL")
		return
	}

	key := strings.TrimPrefix(parsed.Path, "/")
	if key == "" {
		return
	}

	if err := s.storage.DeleteFile(key); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to delete stored file")
	}
}
