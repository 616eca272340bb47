package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pension-backend/models"
	"pension-backend/services"
	"pension-backend/utils"
)

type roomCatalog interface {
	ListRooms(ctx context.Context, f services.RoomFilter) ([]models.Room, error)
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	FloorDetails(ctx context.Context, floor int) (*services.FloorDetails, error)
	PickAvailableRooms(ctx context.Context, n int) ([]models.Room, error)
}

type RoomController struct {
	Catalog roomCatalog
	Log     logrus.FieldLogger
}

func NewRoomController(catalog roomCatalog, log logrus.FieldLogger) *RoomController {
	return &RoomController{Catalog: catalog, Log: log}
}

// GetRooms lists rooms, optionally filtered by ?available=, ?floor= and ?type=.
func (rc *RoomController) GetRooms(c *gin.Context) {
	var f services.RoomFilter
	if raw := strings.TrimSpace(c.Query("available")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.validation", "available must be true or false")
			return
		}
		f.Available = &v
	}
	if raw := strings.TrimSpace(c.Query("floor")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.validation", "floor must be a number")
			return
		}
		f.Floor = &v
	}
	f.RoomType = strings.TrimSpace(c.Query("type"))

	rooms, err := rc.Catalog.ListRooms(c.Request.Context(), f)
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (rc *RoomController) GetRoom(c *gin.Context) {
	room, err := rc.Catalog.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (rc *RoomController) GetFloor(c *gin.Context) {
	floor, err := strconv.Atoi(c.Param("floor"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.validation", "floor must be a number")
		return
	}
	details, err := rc.Catalog.FloorDetails(c.Request.Context(), floor)
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, details)
}

// PickRooms returns the first ?count= open rooms for the quick booking flow.
func (rc *RoomController) PickRooms(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("count", "1"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.validation", "count must be a number")
		return
	}
	rooms, err := rc.Catalog.PickAvailableRooms(c.Request.Context(), n)
	if err != nil {
		respondError(c, rc.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}
