package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Iphint/Sayurku/config"
	"github.com/Iphint/Sayurku/internal/domain"
	"github.com/Iphint/Sayurku/internal/dto"
	"github.com/Iphint/Sayurku/internal/repository"
	"github.com/Iphint/Sayurku/pkg/errs"
	"github.com/Iphint/Sayurku/pkg/filestore"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

const trxTimeout = 15 * time.Second

type ProductServiceImpl struct {
	repo          repository.ProductRepository
	fileStore     *filestore.FileStore
	config        config.Config
	kafkaProducer *kafka.Conn
}

func CreateProductService(repo repository.ProductRepository, fileStore *filestore.FileStore, config config.Config, kafkaProducer *kafka.Conn) ProductService {
	return &ProductServiceImpl{
		repo:          repo,
		fileStore:     fileStore,
		config:        config,
		kafkaProducer: kafkaProducer,
	}
}

func (s *ProductServiceImpl) GetProducts(ctx context.Context) (resp dto.ProductListResponse, err error) {
	rows, err := s.repo.GetProductRows(ctx)
	if err != nil {
		return
	}

	resp.Data = groupProductRows(rows)

	return resp, nil
}

// groupProductRows folds the left-join rows into one view per product, image
// titles kept in insertion order.
func groupProductRows(rows []domain.ProductImageRow) []dto.ProductResponse {
	views := []dto.ProductResponse{}
	index := make(map[int64]int)

	for _, row := range rows {
		i, ok := index[row.ID]
		if !ok {
			views = append(views, dto.ProductResponse{
				ID:        row.ID,
				UserID:    row.UserID,
				Name:      row.Name,
				Category:  row.Category,
				Price:     row.Price,
				Condition: row.Condition,
				Images:    []string{},
			})
			i = len(views) - 1
			index[row.ID] = i
		}

		if row.ImageTitle != nil {
			views[i].Images = append(views[i].Images, *row.ImageTitle)
		}
	}

	return views
}

// AddProduct inserts the product row and one image row per stored upload in
// a single transaction. The uploads were persisted by the HTTP layer before
// this call, so every failure path must schedule their removal.
func (s *ProductServiceImpl) AddProduct(ctx context.Context, payload dto.ProductRequest) (resp dto.ProductResponse, err error) {
	if payload.Name == "" || payload.Category == "" || payload.Price == 0 || payload.Condition == "" || len(payload.Images) == 0 {
		s.fileStore.RemoveAll(payload.Images)
		return resp, errs.ErrClient
	}

	ctx, cancel := context.WithTimeout(ctx, trxTimeout)
	defer cancel()

	var productID int64
	err = s.repo.HandleTrx(ctx, func(ctx context.Context, repo repository.ProductRepository) error {
		productID, err = repo.AddProduct(ctx, domain.Product{
			UserID:    payload.UserID,
			Name:      payload.Name,
			Category:  payload.Category,
			Price:     payload.Price,
			Condition: payload.Condition,
		})
		if err != nil {
			return err
		}

		for _, image := range payload.Images {
			if err := repo.AddImage(ctx, domain.Image{
				ProductID:  productID,
				ImageTitle: image,
			}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		// rolled back; the stored uploads are orphans now
		s.fileStore.RemoveAll(payload.Images)
		return resp, err
	}

	s.publishEvent("product_created", dto.ProductCreatedEvent{
		ProductID: productID,
		UserID:    payload.UserID,
		Name:      payload.Name,
	})

	resp = dto.ProductResponse{
		ID:        productID,
		UserID:    payload.UserID,
		Name:      payload.Name,
		Category:  payload.Category,
		Price:     payload.Price,
		Condition: payload.Condition,
		Images:    payload.Images,
	}

	return resp, nil
}

// UpdateProduct replaces the entire image set along with the scalar fields.
// A failed file unlink is logged and never blocks the row update; a store
// failure rolls the rows back while already-unlinked files stay gone (the
// store is authoritative, disk may lag).
func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, payload dto.ProductRequest) (resp dto.ProductResponse, err error) {
	if payload.Name == "" || payload.Category == "" || payload.Price == 0 || payload.Condition == "" || len(payload.Images) == 0 {
		s.fileStore.RemoveAll(payload.Images)
		return resp, errs.ErrClient
	}

	ctx, cancel := context.WithTimeout(ctx, trxTimeout)
	defer cancel()

	err = s.repo.HandleTrx(ctx, func(ctx context.Context, repo repository.ProductRepository) error {
		product, err := repo.GetProductByID(ctx, payload.ID)
		if err != nil {
			return err
		}

		oldImages, err := repo.GetImagesByProductID(ctx, product.ID)
		if err != nil {
			return err
		}

		for _, old := range oldImages {
			if err := s.fileStore.Remove(old.ImageTitle); err != nil {
				log.Error().Err(err).Str("component", "UpdateProduct").Str("file", old.ImageTitle).Msg("")
			}
			if err := repo.DeleteImage(ctx, old.ID); err != nil {
				return err
			}
		}

		if err := repo.UpdateProduct(ctx, domain.Product{
			ID:        product.ID,
			Name:      payload.Name,
			Category:  payload.Category,
			Price:     payload.Price,
			Condition: payload.Condition,
		}); err != nil {
			return err
		}

		for _, image := range payload.Images {
			if err := repo.AddImage(ctx, domain.Image{
				ProductID:  product.ID,
				ImageTitle: image,
			}); err != nil {
				return err
			}
		}

		resp = dto.ProductResponse{
			ID:        product.ID,
			UserID:    product.UserID,
			Name:      payload.Name,
			Category:  payload.Category,
			Price:     payload.Price,
			Condition: payload.Condition,
			Images:    payload.Images,
		}

		return nil
	})
	if err != nil {
		s.fileStore.RemoveAll(payload.Images)
		return dto.ProductResponse{}, err
	}

	return resp, nil
}

// DeleteProduct cascades image rows and files before the product row. The
// product is fetched by (id, user_id) first, so a non-owner gets NotFound
// before any row or file is touched.
func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, id int64, userID int64) (err error) {
	ctx, cancel := context.WithTimeout(ctx, trxTimeout)
	defer cancel()

	return s.repo.HandleTrx(ctx, func(ctx context.Context, repo repository.ProductRepository) error {
		product, err := repo.GetProductByIDAndUserID(ctx, id, userID)
		if err != nil {
			return err
		}

		images, err := repo.GetImagesByProductID(ctx, product.ID)
		if err != nil {
			return err
		}

		for _, image := range images {
			if err := s.fileStore.Remove(image.ImageTitle); err != nil {
				log.Error().Err(err).Str("component", "DeleteProduct").Str("file", image.ImageTitle).Msg("")
			}
		}

		if err := repo.DeleteImagesByProductID(ctx, product.ID); err != nil {
			return err
		}

		affected, err := repo.DeleteProduct(ctx, id, userID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return errs.ErrProductNotFound
		}

		return nil
	})
}

// SweepOrphanFiles is the reconciliation hook for the accepted disk leaks:
// uploads older than an hour with no backing image row are removed.
func (s *ProductServiceImpl) SweepOrphanFiles() {
	ctx, cancel := context.WithTimeout(context.Background(), trxTimeout)
	defer cancel()

	titles, err := s.repo.GetImageTitles(ctx)
	if err != nil {
		log.Error().Err(err).Str("component", "SweepOrphanFiles").Msg("")
		return
	}

	referenced := make(map[string]bool, len(titles))
	for _, title := range titles {
		referenced[title] = true
	}

	removed, err := s.fileStore.SweepOrphans(referenced, time.Hour)
	if err != nil {
		log.Error().Err(err).Str("component", "SweepOrphanFiles").Msg("")
		return
	}

	if len(removed) > 0 {
		log.Info().Str("component", "SweepOrphanFiles").Int("removed", len(removed)).Msg("orphaned upload files removed")
	}
}

func (s *ProductServiceImpl) publishEvent(eventType string, data interface{}) {
	if s.kafkaProducer == nil {
		return
	}

	jsonMsg, err := json.Marshal(dto.KafkaMessage{
		EventType: eventType,
		Data:      data,
	})
	if err != nil {
		log.Error().Err(err).Str("component", "publishEvent").Msg("")
		return
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		_, err = s.kafkaProducer.WriteMessages(kafka.Message{Value: jsonMsg})
		if err == nil {
			return
		}
		log.Error().Err(err).Str("component", "publishEvent").Str("event", eventType).Msg("")
		time.Sleep(time.Second * time.Duration(i+1))
	}
}
