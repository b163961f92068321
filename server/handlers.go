package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"imagepress/types"
)

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Image Compressor API is running",
	})
}

func (s *Server) handleInspect(c echo.Context) error {
	raw, filename, err := readUpload(c)
	if err != nil {
		return err
	}

	info, err := s.svc.Inspect(raw, filename)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, info)
}

func (s *Server) handleEstimate(c echo.Context) error {
	raw, _, err := readUpload(c)
	if err != nil {
		return err
	}

	req, err := parseParams(c)
	if err != nil {
		return err
	}

	estimate, err := s.svc.Estimate(c.Request().Context(), raw, req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, estimate)
}

func (s *Server) handleCompress(c echo.Context) error {
	raw, filename, err := readUpload(c)
	if err != nil {
		return err
	}

	req, err := parseParams(c)
	if err != nil {
		return err
	}

	result, err := s.svc.Compress(c.Request().Context(), raw, filename, req)
	if err != nil {
		return httpError(err)
	}

	warnings, err := json.Marshal(result.Warnings)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	header := c.Response().Header()
	header.Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", result.SuggestedFilename))
	header.Set("X-Width", fmt.Sprintf("%d", result.Width))
	header.Set("X-Height", fmt.Sprintf("%d", result.Height))
	header.Set("X-Size-Bytes", fmt.Sprintf("%d", result.SizeBytes))
	header.Set("X-Format", string(result.Format))
	header.Set("X-Warnings", string(warnings))

	return c.Blob(http.StatusOK, result.Format.MIME(), result.Encoded)
}

// readUpload extracts the uploaded file bytes and original filename from
// the multipart form
func readUpload(c echo.Context) ([]byte, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "missing file upload")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "cannot read file upload")
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "cannot read file upload")
	}

	return raw, fileHeader.Filename, nil
}

// parseParams decodes the params JSON form field into a request
func parseParams(c echo.Context) (types.CompressionRequest, error) {
	var req types.CompressionRequest

	params := c.FormValue("params")
	if params == "" {
		return req, echo.NewHTTPError(http.StatusBadRequest, "missing params form field")
	}

	if err := json.Unmarshal([]byte(params), &req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON in params")
	}

	return req, nil
}

// httpError maps service error kinds to HTTP statuses
func httpError(err error) error {
	var (
		validationErr *types.ValidationError
		invalidImage  *types.InvalidImageError
		unsupported   *types.UnsupportedFormatError
		metadataErr   *types.MetadataEncodingError
		encodeErr     *types.EncodeError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &invalidImage):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &unsupported):
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, err.Error())
	case errors.As(err, &metadataErr):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &encodeErr):
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
