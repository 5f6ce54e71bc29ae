package service

import (
	"context"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/Iphint/Sayurku/internal/domain"
	"github.com/Iphint/Sayurku/internal/dto"
	"github.com/Iphint/Sayurku/internal/repository"
	"github.com/Iphint/Sayurku/pkg/errs"
	"github.com/Iphint/Sayurku/pkg/filestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProductRepo keeps rows in memory. HandleTrx snapshots the state and
// restores it when fn fails, so rollback behavior is observable in tests.
type fakeProductRepo struct {
	products      map[int64]domain.Product
	images        map[int64]domain.Image
	nextProductID int64
	nextImageID   int64
	failAddImage  int // fail the nth AddImage call, 0 = never
	addImageCalls int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products:      map[int64]domain.Product{},
		images:        map[int64]domain.Image{},
		nextProductID: 1,
		nextImageID:   1,
	}
}

func (r *fakeProductRepo) sortedProducts() []domain.Product {
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeProductRepo) sortedImages(productID int64) []domain.Image {
	out := []domain.Image{}
	for _, img := range r.images {
		if img.ProductID == productID {
			out = append(out, img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeProductRepo) GetProductRows(ctx context.Context) ([]domain.ProductImageRow, error) {
	var rows []domain.ProductImageRow
	for _, p := range r.sortedProducts() {
		images := r.sortedImages(p.ID)
		if len(images) == 0 {
			rows = append(rows, domain.ProductImageRow{
				ID: p.ID, UserID: p.UserID, Name: p.Name, Category: p.Category, Price: p.Price, Condition: p.Condition,
			})
			continue
		}
		for _, img := range images {
			title := img.ImageTitle
			rows = append(rows, domain.ProductImageRow{
				ID: p.ID, UserID: p.UserID, Name: p.Name, Category: p.Category, Price: p.Price, Condition: p.Condition,
				ImageTitle: &title,
			})
		}
	}
	return rows, nil
}

func (r *fakeProductRepo) GetProductByID(ctx context.Context, id int64) (domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, errs.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) GetProductByIDAndUserID(ctx context.Context, id int64, userID int64) (domain.Product, error) {
	p, ok := r.products[id]
	if !ok || p.UserID != userID {
		return domain.Product{}, errs.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) AddProduct(ctx context.Context, data domain.Product) (int64, error) {
	data.ID = r.nextProductID
	r.nextProductID++
	r.products[data.ID] = data
	return data.ID, nil
}

func (r *fakeProductRepo) UpdateProduct(ctx context.Context, data domain.Product) error {
	p, ok := r.products[data.ID]
	if !ok {
		return nil
	}
	p.Name = data.Name
	p.Category = data.Category
	p.Price = data.Price
	p.Condition = data.Condition
	r.products[data.ID] = p
	return nil
}

func (r *fakeProductRepo) DeleteProduct(ctx context.Context, id int64, userID int64) (int64, error) {
	p, ok := r.products[id]
	if !ok || p.UserID != userID {
		return 0, nil
	}
	delete(r.products, id)
	return 1, nil
}

func (r *fakeProductRepo) GetImagesByProductID(ctx context.Context, productID int64) ([]domain.Image, error) {
	return r.sortedImages(productID), nil
}

func (r *fakeProductRepo) AddImage(ctx context.Context, data domain.Image) error {
	r.addImageCalls++
	if r.failAddImage != 0 && r.addImageCalls == r.failAddImage {
		return errs.ErrInternalServer
	}
	data.ID = r.nextImageID
	r.nextImageID++
	r.images[data.ID] = data
	return nil
}

func (r *fakeProductRepo) DeleteImage(ctx context.Context, id int64) error {
	delete(r.images, id)
	return nil
}

func (r *fakeProductRepo) DeleteImagesByProductID(ctx context.Context, productID int64) error {
	for id, img := range r.images {
		if img.ProductID == productID {
			delete(r.images, id)
		}
	}
	return nil
}

func (r *fakeProductRepo) GetImageTitles(ctx context.Context) ([]string, error) {
	var titles []string
	for _, img := range r.images {
		titles = append(titles, img.ImageTitle)
	}
	return titles, nil
}

func (r *fakeProductRepo) HandleTrx(ctx context.Context, fn func(ctx context.Context, repo repository.ProductRepository) error) error {
	productsSnapshot := make(map[int64]domain.Product, len(r.products))
	for k, v := range r.products {
		productsSnapshot[k] = v
	}
	imagesSnapshot := make(map[int64]domain.Image, len(r.images))
	for k, v := range r.images {
		imagesSnapshot[k] = v
	}
	nextProduct, nextImage := r.nextProductID, r.nextImageID

	if err := fn(ctx, r); err != nil {
		r.products = productsSnapshot
		r.images = imagesSnapshot
		r.nextProductID = nextProduct
		r.nextImageID = nextImage
		return err
	}

	return nil
}

func newProductFixture(t *testing.T) (*fakeProductRepo, *filestore.FileStore, ProductService) {
	t.Helper()

	repo := newFakeProductRepo()
	store, err := filestore.CreateFileStore(t.TempDir())
	require.NoError(t, err)

	return repo, store, CreateProductService(repo, store, testConfig(), nil)
}

func storeUpload(t *testing.T, store *filestore.FileStore, originalName string) string {
	t.Helper()

	name, err := store.Save("images", originalName, strings.NewReader("payload"))
	require.NoError(t, err)

	return name
}

func TestGetProductsGrouping(t *testing.T) {
	repo, _, svc := newProductFixture(t)

	first, err := repo.AddProduct(context.Background(), domain.Product{UserID: 1, Name: "Kale", Category: "vegetable", Price: 3, Condition: "fresh"})
	require.NoError(t, err)
	second, err := repo.AddProduct(context.Background(), domain.Product{UserID: 2, Name: "Basil", Category: "herb", Price: 2, Condition: "fresh"})
	require.NoError(t, err)

	require.NoError(t, repo.AddImage(context.Background(), domain.Image{ProductID: first, ImageTitle: "img1.jpg"}))
	require.NoError(t, repo.AddImage(context.Background(), domain.Image{ProductID: first, ImageTitle: "img2.jpg"}))

	resp, err := svc.GetProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)

	assert.Equal(t, []string{"img1.jpg", "img2.jpg"}, resp.Data[0].Images)
	assert.Equal(t, first, resp.Data[0].ID)
	assert.Equal(t, second, resp.Data[1].ID)
	assert.Equal(t, []string{}, resp.Data[1].Images)
}

func TestAddProduct(t *testing.T) {
	_, store, svc := newProductFixture(t)

	uploads := []string{
		storeUpload(t, store, "one.jpg"),
		storeUpload(t, store, "two.png"),
	}

	resp, err := svc.AddProduct(context.Background(), dto.ProductRequest{
		UserID: 1, Name: "Kale", Category: "vegetable", Price: 3, Condition: "fresh",
		Images: uploads,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, uploads, resp.Images)

	list, err := svc.GetProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, uploads, list.Data[0].Images)

	for _, name := range uploads {
		assert.FileExists(t, store.Path(name))
	}
}

func TestAddProductValidation(t *testing.T) {
	testCases := []struct {
		name    string
		payload dto.ProductRequest
	}{
		{
			name:    "no images",
			payload: dto.ProductRequest{UserID: 1, Name: "Kale", Category: "vegetable", Price: 3, Condition: "fresh"},
		},
		{
			name:    "missing name",
			payload: dto.ProductRequest{UserID: 1, Category: "vegetable", Price: 3, Condition: "fresh"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo, store, svc := newProductFixture(t)

			if tc.payload.Name == "" {
				tc.payload.Images = []string{storeUpload(t, store, "one.jpg")}
			}

			_, err := svc.AddProduct(context.Background(), tc.payload)
			assert.ErrorIs(t, err, errs.ErrClient)
			assert.Empty(t, repo.products)

			// the already-persisted uploads must not be left behind
			for _, name := range tc.payload.Images {
				assert.NoFileExists(t, store.Path(name))
			}
		})
	}
}

func TestAddProductRollback(t *testing.T) {
	repo, store, svc := newProductFixture(t)
	repo.failAddImage = 2

	uploads := []string{
		storeUpload(t, store, "one.jpg"),
		storeUpload(t, store, "two.jpg"),
	}

	_, err := svc.AddProduct(context.Background(), dto.ProductRequest{
		UserID: 1, Name: "Kale", Category: "vegetable", Price: 3, Condition: "fresh",
		Images: uploads,
	})
	require.Error(t, err)

	assert.Empty(t, repo.products, "product row must not survive a failed image insert")
	assert.Empty(t, repo.images)
	for _, name := range uploads {
		assert.NoFileExists(t, store.Path(name))
	}
}

func TestUpdateProductReplacesImageSet(t *testing.T) {
	_, store, svc := newProductFixture(t)

	oldUpload := storeUpload(t, store, "img1.jpg")
	resp, err := svc.AddProduct(context.Background(), dto.ProductRequest{
		UserID: 1, Name: "Kale", Category: "vegetable", Price: 3, Condition: "fresh",
		Images: []string{oldUpload},
	})
	require.NoError(t, err)

	newUpload := storeUpload(t, store, "img2.jpg")
	updated, err := svc.UpdateProduct(context.Background(), dto.ProductRequest{
		ID: resp.ID, Name: "Kale Premium", Category: "vegetable", Price: 5, Condition: "fresh",
		Images: []string{newUpload},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{newUpload}, updated.Images)
	assert.Equal(t, "Kale Premium", updated.Name)
	assert.Equal(t, float64(5), updated.Price)
	assert.Equal(t, int64(1), updated.UserID)

	list, err := svc.GetProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, []string{newUpload}, list.Data[0].Images, "update must replace, not merge")

	assert.NoFileExists(t, store.Path(oldUpload))
	assert.FileExists(t, store.Path(newUpload))
}

func TestUpdateProductNotFound(t *testing.T) {
	_, store, svc := newProductFixture(t)

	upload := storeUpload(t, store, "img1.jpg")
	_, err := svc.UpdateProduct(context.Background(), dto.ProductRequest{
		ID: 99, Name: "Kale", Category: "vegetable", Price: 3, Condition: "fresh",
		Images: []string{upload},
	})
	assert.ErrorIs(t, err, errs.ErrProductNotFound)
	assert.NoFileExists(t, store.Path(upload))
}

func TestDeleteProduct(t *testing.T) {
	repo, store, svc := newProductFixture(t)

	upload := storeUpload(t, store, "img1.jpg")
	resp, err := svc.AddProduct(context.Background(), dto.ProductRequest{
		UserID: 1, Name: "Kale", Category: "vegetable", Price: 3, Condition: "fresh",
		Images: []string{upload},
	})
	require.NoError(t, err)

	t.Run("non-owner gets NotFound with no side effects", func(t *testing.T) {
		err := svc.DeleteProduct(context.Background(), resp.ID, 2)
		assert.ErrorIs(t, err, errs.ErrProductNotFound)
		assert.Len(t, repo.products, 1)
		assert.Len(t, repo.images, 1)
		assert.FileExists(t, store.Path(upload))
	})

	t.Run("nonexistent id gets NotFound", func(t *testing.T) {
		err := svc.DeleteProduct(context.Background(), 99, 1)
		assert.ErrorIs(t, err, errs.ErrProductNotFound)
	})

	t.Run("owner delete cascades rows and files", func(t *testing.T) {
		err := svc.DeleteProduct(context.Background(), resp.ID, 1)
		require.NoError(t, err)
		assert.Empty(t, repo.products)
		assert.Empty(t, repo.images)
		assert.NoFileExists(t, store.Path(upload))

		list, err := svc.GetProducts(context.Background())
		require.NoError(t, err)
		assert.Empty(t, list.Data)
	})
}

func TestSweepOrphanFiles(t *testing.T) {
	repo, store, svc := newProductFixture(t)

	referenced := storeUpload(t, store, "kept.jpg")
	orphan := storeUpload(t, store, "orphan.jpg")
	require.NoError(t, repo.AddImage(context.Background(), domain.Image{ProductID: 1, ImageTitle: referenced}))

	stale := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(store.Path(referenced), stale, stale))
	require.NoError(t, os.Chtimes(store.Path(orphan), stale, stale))

	svc.SweepOrphanFiles()

	assert.FileExists(t, store.Path(referenced))
	assert.NoFileExists(t, store.Path(orphan))
}
