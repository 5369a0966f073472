package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mbpa/rcv-votes/internal/aggregator"
	"github.com/mbpa/rcv-votes/internal/domain"
	apperrors "github.com/mbpa/rcv-votes/internal/errors"
	"github.com/mbpa/rcv-votes/internal/logging"
)

// Handler handles API requests
type Handler struct {
	aggregator aggregator.Aggregator
}

// NewHandler creates a new API handler
func NewHandler(agg aggregator.Aggregator) *Handler {
	return &Handler{
		aggregator: agg,
	}
}

// GetMemberVotes runs the collection pipeline for one member
// GET /api/v1/members/:lastName/votes?state=CA&congress=118&congress=119
func (h *Handler) GetMemberVotes(c *gin.Context) {
	lastName := c.Param("lastName")
	state := c.Query("state")

	congresses, err := parseCongresses(c.QueryArray("congress"))
	if err != nil {
		respondError(c, err)
		return
	}

	query, err := domain.NewMemberQuery(lastName, state, congresses)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, _ := logging.WithCorrelationID(c.Request.Context())
	records, err := h.aggregator.Collect(ctx, query)
	if err != nil {
		if apperrors.IsNoVotesFound(err) {
			c.JSON(http.StatusOK, gin.H{
				"data":  []domain.VoteRecord{},
				"count": 0,
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  records,
		"count": len(records),
	})
}

// HealthCheck returns the service health status
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// parseCongresses accepts repeated congress parameters, each of which may be
// a single number or a comma-separated list.
func parseCongresses(values []string) ([]int, error) {
	var congresses []int
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, apperrors.NewInvalidQueryError("congress", "not a number: "+part)
			}
			congresses = append(congresses, n)
		}
	}
	return congresses, nil
}

// respondError maps application error codes to HTTP statuses
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsInvalidQuery(err):
		status = http.StatusBadRequest
	case apperrors.IsMemberNotFound(err):
		status = http.StatusNotFound
	case apperrors.IsSourceUnavailable(err):
		status = http.StatusBadGateway
	case apperrors.IsConfiguration(err):
		status = http.StatusInternalServerError
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
	})
}
