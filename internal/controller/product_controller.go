package controller

import (
	"mime/multipart"
	"strconv"

	"github.com/Iphint/Sayurku/internal/dto"
	"github.com/Iphint/Sayurku/internal/service"
	"github.com/Iphint/Sayurku/pkg/errs"
	"github.com/Iphint/Sayurku/pkg/filestore"
	"github.com/Iphint/Sayurku/pkg/response"
	"github.com/Iphint/Sayurku/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type ProductController struct {
	service   service.ProductService
	fileStore *filestore.FileStore
}

func CreateProductController(e *echo.Group, service service.ProductService, fileStore *filestore.FileStore, isLoggedIn echo.MiddlewareFunc) {
	c := ProductController{
		service:   service,
		fileStore: fileStore,
	}

	e.GET("/products", c.GetProducts)
	e.POST("/products", c.AddProduct, isLoggedIn)
	e.PUT("/products/:id", c.UpdateProduct, isLoggedIn)
	e.DELETE("/products/:id", c.DeleteProduct, isLoggedIn)
}

func (c *ProductController) GetProducts(e echo.Context) error {
	resp, err := c.service.GetProducts(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, resp)
}

func (c *ProductController) AddProduct(e echo.Context) error {
	userID, _, _ := utils.ExtractTokenUser(e)

	payload, err := c.bindProductForm(e)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}
	payload.UserID = userID

	resp, err := c.service.AddProduct(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, dto.CreateProductResponse{
		Message: "Product created successfully",
		Product: resp,
	})
}

func (c *ProductController) UpdateProduct(e echo.Context) error {
	id, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient)
	}

	payload, err := c.bindProductForm(e)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}
	payload.ID = id

	resp, err := c.service.UpdateProduct(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, dto.UpdateProductResponse{
		Message:        "Product updated successfully",
		UpdatedProduct: resp,
	})
}

func (c *ProductController) DeleteProduct(e echo.Context) error {
	userID, _, _ := utils.ExtractTokenUser(e)

	id, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient)
	}

	if err := c.service.DeleteProduct(e.Request().Context(), id, userID); err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, dto.MessageResponse{
		Message: "Product deleted successfully",
	})
}

// bindProductForm reads the multipart form and persists the uploads through
// the file store, returning the stored filenames on the payload. From this
// point on the service owns the cleanup of those files.
func (c *ProductController) bindProductForm(e echo.Context) (payload dto.ProductRequest, err error) {
	payload.Name = e.FormValue("name")
	payload.Category = e.FormValue("category")
	payload.Condition = e.FormValue("condition")
	if priceStr := e.FormValue("price"); priceStr != "" {
		payload.Price, err = strconv.ParseFloat(priceStr, 64)
		if err != nil {
			return payload, errs.ErrClient
		}
	}

	form, err := e.MultipartForm()
	if err != nil {
		log.Error().Err(err).Str("component", "bindProductForm").Msg("")
		return payload, errs.ErrClient
	}

	for _, fileHeader := range form.File["images"] {
		name, err := c.saveUpload(fileHeader)
		if err != nil {
			c.fileStore.RemoveAll(payload.Images)
			return payload, err
		}
		payload.Images = append(payload.Images, name)
	}

	return payload, nil
}

func (c *ProductController) saveUpload(fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Str("component", "saveUpload").Msg("")
		return "", errs.ErrInternalServer
	}
	defer src.Close()

	return c.fileStore.Save("images", fileHeader.Filename, src)
}
