package httpapi

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"medirural/internal/repository"
	"medirural/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type medicineReq struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Stock        int64   `json:"stock"`
	Category     string  `json:"category"`
	Manufacturer string  `json:"manufacturer"`
	// ExpiryDate YYYY-MM-DD или RFC3339
	ExpiryDate string `json:"expiryDate"`
	ImageURL   string `json:"imageUrl"`
}

func (r medicineReq) toInput() (service.MedicineInput, error) {
	in := service.MedicineInput{
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		Stock:        r.Stock,
		Category:     r.Category,
		Manufacturer: r.Manufacturer,
		ImageURL:     r.ImageURL,
	}
	if r.ExpiryDate != "" {
		t, err := parseDate(r.ExpiryDate)
		if err != nil {
			return in, &service.ValidationError{Fields: map[string]string{"expiryDate": "must be YYYY-MM-DD"}}
		}
		in.ExpiryDate = t
	}
	return in, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", v)
}

// @Summary List medicines
// @Tags medicines
// @Produce json
// @Param search query string false "Name, category or manufacturer contains"
// @Param category query string false "Exact category"
// @Param min_price query number false "Min price"
// @Param max_price query number false "Max price"
// @Success 200 {array} domain.Medicine
// @Failure 400 {object} map[string]any
// @Router /medicines [get]
func (s *Server) listMedicines(c *gin.Context) {
	f := repository.MedicineFilter{Search: c.Query("search"), Category: c.Query("category")}
	for key, dst := range map[string]**float64{"min_price": &f.MinPrice, "max_price": &f.MaxPrice} {
		if v := c.Query(key); v != "" {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				s.respondError(c, &service.ValidationError{Fields: map[string]string{key: "must be a number"}})
				return
			}
			*dst = &x
		}
	}
	list, err := s.medicines.List(c.Request.Context(), f)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary List medicine categories
// @Tags medicines
// @Produce json
// @Success 200 {array} string
// @Router /medicines/categories [get]
func (s *Server) listCategories(c *gin.Context) {
	cats, err := s.medicines.Categories(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// @Summary Get medicine by id
// @Tags medicines
// @Produce json
// @Param id path string true "Medicine ID"
// @Success 200 {object} domain.Medicine
// @Failure 404 {object} map[string]string
// @Router /medicines/{id} [get]
func (s *Server) getMedicine(c *gin.Context) {
	m, err := s.medicines.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary Create medicine
// @Tags medicines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body medicineReq true "Medicine"
// @Success 201 {object} domain.Medicine
// @Failure 400 {object} map[string]any
// @Failure 403 {object} map[string]string
// @Router /medicines [post]
func (s *Server) createMedicine(c *gin.Context) {
	var req medicineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	in, err := req.toInput()
	if err != nil {
		s.respondError(c, err)
		return
	}
	m, err := s.medicines.Create(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// @Summary Update medicine
// @Tags medicines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Medicine ID"
// @Param input body medicineReq true "Medicine"
// @Success 200 {object} domain.Medicine
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /medicines/{id} [put]
func (s *Server) updateMedicine(c *gin.Context) {
	var req medicineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	in, err := req.toInput()
	if err != nil {
		s.respondError(c, err)
		return
	}
	m, err := s.medicines.Update(c.Request.Context(), actorFrom(c), c.Param("id"), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

type stockReq struct {
	Stock *int64 `json:"stock"`
}

// @Summary Set stock level
// @Tags medicines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Medicine ID"
// @Param input body stockReq true "Stock"
// @Success 200 {object} domain.Medicine
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /medicines/{id} [patch]
func (s *Server) updateStock(c *gin.Context) {
	var req stockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	if req.Stock == nil {
		s.respondError(c, &service.ValidationError{Fields: map[string]string{"stock": "is required"}})
		return
	}
	m, err := s.medicines.UpdateStock(c.Request.Context(), actorFrom(c), c.Param("id"), *req.Stock)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary Delete medicine
// @Tags medicines
// @Security BearerAuth
// @Param id path string true "Medicine ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /medicines/{id} [delete]
func (s *Server) deleteMedicine(c *gin.Context) {
	if err := s.medicines.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Import medicines from xlsx
// @Tags medicines
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Spreadsheet"
// @Success 200 {object} service.ImportResult
// @Failure 400 {object} map[string]any
// @Router /medicines/import [post]
func (s *Server) importMedicines(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		s.respondError(c, &service.ValidationError{Fields: map[string]string{"file": "is required"}})
		return
	}
	if fh.Size > s.opts.MaxUploadBytes {
		s.respondError(c, &service.ValidationError{Fields: map[string]string{"file": "is too large"}})
		return
	}
	f, err := fh.Open()
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, s.opts.MaxUploadBytes))
	if err != nil {
		s.respondError(c, err)
		return
	}
	res, err := s.medicines.ImportXLSX(c.Request.Context(), actorFrom(c), data)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Export medicines to xlsx
// @Tags medicines
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /medicines/export [get]
func (s *Server) exportMedicines(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.medicines.ExportXLSX(c.Request.Context(), actorFrom(c), &buf); err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="medicines.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
