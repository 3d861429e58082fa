package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/brandon3sican/to-system/internal/dto"
	"github.com/brandon3sican/to-system/internal/model"
	"github.com/brandon3sican/to-system/internal/service"
	"github.com/brandon3sican/to-system/internal/web"
)

const officialStationsPath = "/official-stations"

// OfficialStationHandler official stations travel orders depart from
type OfficialStationHandler struct {
	stationSvc service.OfficialStationService
}

// NewOfficialStationHandler creates an OfficialStationHandler
func NewOfficialStationHandler(stationSvc service.OfficialStationService) *OfficialStationHandler {
	return &OfficialStationHandler{stationSvc: stationSvc}
}

func officialStationFields(s *model.OfficialStation) []web.FormField {
	fields := []web.FormField{
		{Name: "name", Label: "Name", Type: "text", Required: true},
		{Name: "address", Label: "Address", Type: "textarea"},
		{Name: "description", Label: "Description", Type: "textarea"},
	}
	if s != nil {
		fields[0].Value, fields[1].Value, fields[2].Value = s.Name, s.Address, s.Description
	}
	return fields
}

// ListOfficialStations
// GET /official-stations
func (h *OfficialStationHandler) ListOfficialStations(c *gin.Context) {
	var req dto.PaginationRequest
	bindPage(c, &req)

	stations, total, err := h.stationSvc.List(c.Request.Context(), &req)
	if err != nil {
		errorPage(c, err)
		return
	}
	rows := make([]web.CatalogRow, 0, len(stations))
	for _, s := range stations {
		rows = append(rows, web.CatalogRow{ID: s.ID, Cells: []string{s.Name, s.Address, s.Description}})
	}
	renderCatalog(c, web.CatalogPage{
		Title:    "Official Stations",
		Singular: "official station",
		BasePath: officialStationsPath,
		Columns:  []string{"Name", "Address", "Description"},
		Rows:     rows,
		Fields:   officialStationFields(nil),
		Pager:    web.NewPager(officialStationsPath, c.Request.URL.Query(), total, req.GetPage()),
	})
}

// ShowOfficialStation
// GET /official-stations/:id
func (h *OfficialStationHandler) ShowOfficialStation(c *gin.Context) {
	station, err := h.stationSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleOfficialStationError(c, err, officialStationsPath)
		return
	}
	renderCatalogEdit(c, web.CatalogEdit{
		Title:    "Edit " + station.Name,
		BasePath: officialStationsPath,
		ID:       station.ID,
		Fields:   officialStationFields(station),
	})
}

// CreateOfficialStation
// POST /official-stations
func (h *OfficialStationHandler) CreateOfficialStation(c *gin.Context) {
	var req dto.OfficialStationRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, err, officialStationsPath)
		return
	}
	if _, err := h.stationSvc.Create(c.Request.Context(), &req); err != nil {
		h.handleOfficialStationError(c, err, officialStationsPath)
		return
	}
	redirectSuccess(c, officialStationsPath, "Official station created successfully")
}

// UpdateOfficialStation
// PUT /official-stations/:id
func (h *OfficialStationHandler) UpdateOfficialStation(c *gin.Context) {
	id := c.Param("id")
	back := officialStationsPath + "/" + id

	var req dto.OfficialStationRequest
	if err := c.ShouldBind(&req); err != nil {
		failForm(c, err, back)
		return
	}
	if _, err := h.stationSvc.Update(c.Request.Context(), id, &req); err != nil {
		h.handleOfficialStationError(c, err, back)
		return
	}
	redirectSuccess(c, officialStationsPath, "Official station updated successfully")
}

// DeleteOfficialStation refused while travel orders depart from it
// DELETE /official-stations/:id
func (h *OfficialStationHandler) DeleteOfficialStation(c *gin.Context) {
	if err := h.stationSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleOfficialStationError(c, err, officialStationsPath)
		return
	}
	redirectSuccess(c, officialStationsPath, "Official station deleted successfully")
}

func (h *OfficialStationHandler) handleOfficialStationError(c *gin.Context, err error, back string) {
	switch {
	case errors.Is(err, service.ErrOfficialStationNotFound):
		notFoundPage(c, err.Error())
	case errors.Is(err, service.ErrOfficialStationHasTravelOrders):
		redirectError(c, back, err.Error())
	default:
		failForm(c, err, back)
	}
}
